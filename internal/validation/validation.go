// Package validation configures gin's validator with English messages, JSON
// field names and the enum tags used by request bodies.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"studysync/backend/internal/model"
)

var (
	once       sync.Once
	translator ut.Translator
)

type enumTag struct {
	tag     string
	text    string
	allowed []string
}

var enumTags = []enumTag{
	{"priority", "{0} must be one of low, medium, high", []string{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}},
	{"project_type", "{0} must be one of academic, personal, career", []string{model.ProjectAcademic, model.ProjectPersonal, model.ProjectCareer}},
	{"project_status", "{0} must be one of not_started, in_progress, completed, on_hold", []string{model.ProjectNotStarted, model.ProjectInProgress, model.ProjectCompleted, model.ProjectOnHold}},
	{"schedule_type", "{0} must be one of class, study, assignment, exam, personal", []string{model.ScheduleClass, model.ScheduleStudy, model.ScheduleAssignment, model.ScheduleExam, model.SchedulePersonal}},
	{"timer_mode", "{0} must be one of pomodoro, short_break, long_break", []string{model.ModePomodoro, model.ModeShortBreak, model.ModeLongBreak}},
}

// Setup registers translations and custom tags on gin's validator. It is
// safe to call more than once.
func Setup() {
	once.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		locale := en.New()
		translator, _ = ut.New(locale, locale).GetTranslator("en")
		register(validate, translator)
	})
}

func register(validate *validator.Validate, trans ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, et := range enumTags {
		allowed := et.allowed
		_ = validate.RegisterValidation(et.tag, func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for _, candidate := range allowed {
				if value == candidate {
					return true
				}
			}
			return false
		})
		registerTranslation(validate, trans, et.tag, et.text, false)
	}
	registerTranslation(validate, trans, "required", "{0} is required", true)
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Fields converts a binding error into a map of JSON field name to message.
// It reports false for errors that are not validation failures, such as
// malformed JSON.
func Fields(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if translator != nil {
			fields[name] = fe.Translate(translator)
		} else {
			fields[name] = fe.Error()
		}
	}
	return fields, true
}

// fieldPath drops the top-level struct name from the namespace, so nested
// errors read "cards[0].front".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
