package i18n

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/rw"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const FallbackLocale = "en"

// messages — каталог переводов ответов API. Ключи совпадают во всех локалях.
var messages = map[string]map[string]string{
	"en": {
		"welcome":            "Welcome to the Educational File Manager",
		"profile.updated":    "Profile updated successfully",
		"class.created":      "Class created successfully",
		"student.enrolled":   "Student enrolled successfully",
		"file.uploaded":      "File uploaded successfully",
		"file.updated":       "File updated successfully",
		"file.deleted":       "File deleted successfully",
		"submission.created": "Assignment submitted successfully",
		"submission.graded":  "Submission graded successfully",
	},
	"fr": {
		"welcome":            "Bienvenue dans le gestionnaire de fichiers pédagogiques",
		"profile.updated":    "Profil mis à jour avec succès",
		"class.created":      "Classe créée avec succès",
		"student.enrolled":   "Élève inscrit avec succès",
		"file.uploaded":      "Fichier téléversé avec succès",
		"file.updated":       "Fichier mis à jour avec succès",
		"file.deleted":       "Fichier supprimé avec succès",
		"submission.created": "Devoir soumis avec succès",
		"submission.graded":  "Devoir noté avec succès",
	},
	"rw": {
		"welcome":            "Murakaza neza kuri sisitemu y'imicungire y'amadosiye y'uburezi",
		"profile.updated":    "Umwirondoro wavuguruwe neza",
		"class.created":      "Ishuri ryashyizweho neza",
		"student.enrolled":   "Umunyeshuri yandikishijwe neza",
		"file.uploaded":      "Idosiye yoherejwe neza",
		"file.updated":       "Idosiye yavuguruwe neza",
		"file.deleted":       "Idosiye yasibwe neza",
		"submission.created": "Umukoro watanzwe neza",
		"submission.graded":  "Umukoro wahawe amanota neza",
	},
}

// Translator объединяет каталог переводов и валидатор запросов
type Translator struct {
	uni      *ut.UniversalTranslator
	validate *validator.Validate
}

func New() (*Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, fr.New(), rw.New())

	validate := validator.New()

	// Используем имена из JSON-тегов в сообщениях об ошибках
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enTrans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	// Регистрируем каталог сообщений для каждой локали
	for locale, catalog := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			continue
		}
		for key, text := range catalog {
			if err := trans.Add(key, text, false); err != nil {
				return nil, err
			}
		}
	}

	return &Translator{uni: uni, validate: validate}, nil
}

func (t *Translator) Validate() *validator.Validate {
	return t.validate
}

// T переводит ключ сообщения для указанной локали; неизвестная локаль
// или ключ возвращают перевод по умолчанию (en)
func (t *Translator) T(locale, key string) string {
	trans, found := t.uni.FindTranslator(locale, FallbackLocale)
	if !found {
		trans = t.uni.GetFallback()
	}

	msg, err := trans.T(key)
	if err != nil {
		fallback := t.uni.GetFallback()
		if msg, err = fallback.T(key); err != nil {
			return key
		}
	}
	return msg
}

// TranslateValidation преобразует ошибки валидатора в map поле -> сообщение
func (t *Translator) TranslateValidation(locale string, err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"error": err.Error()}
	}

	trans, found := t.uni.FindTranslator(locale, FallbackLocale)
	if !found {
		trans = t.uni.GetFallback()
	}

	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Translate(trans)
	}
	return out
}

// ResolveLocale выбирает поддерживаемую локаль из Accept-Language
func ResolveLocale(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		switch strings.ToLower(lang) {
		case "en", "fr", "rw":
			return strings.ToLower(lang)
		}
	}
	return FallbackLocale
}
