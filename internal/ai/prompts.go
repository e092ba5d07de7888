package ai

import "fmt"

const (
	chatFallback         = "I'm here to help! Could you please rephrase your question?"
	chatFailure          = "I'm having trouble connecting right now. Please try again in a moment, or rephrase your question."
	explainFallback      = "I couldn't generate an explanation. Please try rephrasing your question."
	explainFailure       = "I'm having trouble explaining this concept right now. Please try again."
	quizFallback         = "I couldn't generate quiz questions. Please try again with a different topic."
	quizFailure          = "I'm having trouble generating quiz questions right now. Please try again."
	feedbackFallback     = "I couldn't provide feedback right now. Please try again."
	feedbackFailure      = "I'm having trouble providing feedback right now. Please try again."
	imageAnalysisFailure = "I couldn't analyze this image right now. Please try again."
	videoAnalysisFailure = "I couldn't analyze this video right now. Please try again."
)

const sentimentSystem = `You are a sentiment analysis expert.
Analyze the sentiment of the text and provide a rating
from 1 to 5 stars and a confidence score between 0 and 1.
Respond with JSON in this format:
{"rating": number, "confidence": number}`

const (
	imageAnalysisPrompt = "Analyze this image in detail and describe its key elements, context, and any notable aspects."
	videoAnalysisPrompt = "Analyze this video in detail and describe its key elements, context, and any notable aspects."
)

func chatPrompt(message string) string {
	return fmt.Sprintf(`You are an AI academic assistant helping students with their studies. Please provide a helpful, accurate, and educational response to the following question or request:

%s

If this is about:
- Math/Science: Provide step-by-step explanations
- Programming: Include code examples and explanations
- Writing: Offer structure and improvement suggestions
- Study advice: Give practical, actionable tips
- General questions: Provide clear, informative answers

Keep responses concise but thorough, and always encourage learning.`, message)
}

func explainPrompt(concept, subject string) string {
	return fmt.Sprintf(`As an educational AI assistant, please explain the concept of %q in %s.

Please provide:
1. A clear, simple definition
2. Key points or components
3. A practical example or analogy
4. How it relates to other concepts in %s

Make it understandable for students while being accurate and comprehensive.`, concept, subject, subject)
}

func quizPrompt(topic, difficulty string, count int) string {
	return fmt.Sprintf(`Generate %d %s level quiz questions about %q.

Format each question as:
Q: [Question]
A: [Answer]
Explanation: [Brief explanation]

Make sure questions are educational, clear, and appropriate for the %s difficulty level.`, count, difficulty, topic, difficulty)
}

func feedbackPrompt(work, subject string) string {
	return fmt.Sprintf(`As an educational AI assistant, please review this student work in %s and provide constructive feedback:

%q

Please provide:
1. What the student did well
2. Areas for improvement
3. Specific suggestions for enhancement
4. Encouragement and next steps

Be supportive, specific, and educational in your feedback.`, subject, work)
}
