// Package letter fills the per-language cover letter templates.
package letter

import (
	"fmt"
	"os"
	"strings"

	"github.com/khrees2412/jobapplier/internal/textnorm"
	"github.com/khrees2412/jobapplier/pkg/models"
)

// TemplateReadError is returned when a template file cannot be read
type TemplateReadError struct {
	Path  string
	Cause error
}

func (e *TemplateReadError) Error() string {
	return fmt.Sprintf("template error: cannot read %s: %v", e.Path, e.Cause)
}

func (e *TemplateReadError) Unwrap() error {
	return e.Cause
}

// Builder renders cover letters. Templates are read from disk on every call.
type Builder struct {
	templates Templates
}

func NewBuilder(templates Templates) *Builder {
	return &Builder{templates: templates}
}

// Build returns the letter for one application
func (b *Builder) Build(lang models.Language, company, title string) (string, error) {
	profile, err := ProfileFor(lang, b.templates)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(profile.TemplatePath)
	if err != nil {
		return "", &TemplateReadError{Path: profile.TemplatePath, Cause: err}
	}

	return Fill(profile, string(data), company, title), nil
}

// Fill substitutes the placeholders of template and applies the elision and
// contraction rules of the profile's language.
func Fill(profile Profile, template, company, title string) string {
	pairs := make([]string, 0, 2*(len(profile.CompanyPlaceholders)+len(profile.TitlePlaceholders)))
	for _, p := range profile.CompanyPlaceholders {
		pairs = append(pairs, p, company)
	}
	for _, p := range profile.TitlePlaceholders {
		pairs = append(pairs, p, title)
	}
	letter := strings.NewReplacer(pairs...).Replace(template)

	if textnorm.StartsWithVowel(title) {
		article := profile.TitleArticle
		letter = strings.ReplaceAll(letter, article.Plain+title, article.Vowel+title)
	}

	if prep := profile.CompanyPreposition; prep != nil && textnorm.StartsWithVowel(company) {
		letter = strings.ReplaceAll(letter, prep.Plain+company, prep.Vowel+company)
	}

	return letter
}
