package letter

import (
	"github.com/khrees2412/jobapplier/pkg/models"
)

// ArticlePair holds the plain form of a word and the form used before a vowel
type ArticlePair struct {
	Plain string
	Vowel string
}

// Templates holds the template file path of each language
type Templates struct {
	EN string
	FR string
}

// Profile is everything needed to fill the template of one language
type Profile struct {
	Language            models.Language
	TemplatePath        string
	CompanyPlaceholders []string
	TitlePlaceholders   []string
	TitleArticle        ArticlePair
	// CompanyPreposition is contracted before vowel-initial company names; nil
	// when the language has no such rule.
	CompanyPreposition *ArticlePair
}

// ProfileFor returns the profile of lang
func ProfileFor(lang models.Language, templates Templates) (Profile, error) {
	switch lang {
	case models.LanguageEN:
		return Profile{
			Language:            models.LanguageEN,
			TemplatePath:        templates.EN,
			CompanyPlaceholders: []string{"COMPANY NAME"},
			TitlePlaceholders:   []string{"JOB TITLE"},
			TitleArticle:        ArticlePair{Plain: "as a ", Vowel: "as an "},
		}, nil
	case models.LanguageFR:
		return Profile{
			Language:            models.LanguageFR,
			TemplatePath:        templates.FR,
			CompanyPlaceholders: []string{"NOM D'ENTREPRISE", "NOM D’ENTREPRISE"},
			TitlePlaceholders:   []string{"TITRE DU POSTE"},
			TitleArticle:        ArticlePair{Plain: "en tant que ", Vowel: "en tant qu'"},
			CompanyPreposition:  &ArticlePair{Plain: "de ", Vowel: "d'"},
		}, nil
	default:
		return Profile{}, &models.UnsupportedLanguageError{Value: string(lang)}
	}
}
