package replay

import (
	"fmt"

	"compreplay/internal/cmdline"
)

type Language string

const (
	LanguageCSharp      Language = "C#"
	LanguageVisualBasic Language = "Visual Basic"
)

// toolLanguages maps a recorded tool name to its language; matching is exact.
var toolLanguages = map[string]Language{
	"csc": LanguageCSharp,
	"vbc": LanguageVisualBasic,
}

func LanguageForTool(tool string) (Language, error) {
	language, ok := toolLanguages[tool]
	if !ok {
		return "", &UnsupportedToolError{Tool: tool}
	}
	return language, nil
}

// LanguageServices is what the builder needs from a language: a command-line parser for now.
type LanguageServices interface {
	Language() Language
	CommandLineParser() cmdline.Parser
}

type LanguageServicesResolver interface {
	Resolve(language Language) (LanguageServices, error)
}

type languageServices struct {
	language Language
	parser   cmdline.Parser
}

func (services languageServices) Language() Language {
	return services.language
}

func (services languageServices) CommandLineParser() cmdline.Parser {
	return services.parser
}

// LanguageServicesRegistry is a LanguageServicesResolver over a fixed set of languages.
type LanguageServicesRegistry struct {
	services map[Language]LanguageServices
}

// MakeDefaultRegistry knows C# and Visual Basic.
func MakeDefaultRegistry() *LanguageServicesRegistry {
	registry := &LanguageServicesRegistry{services: make(map[Language]LanguageServices, 2)}
	registry.Register(languageServices{LanguageCSharp, cmdline.CSharpParser{}})
	registry.Register(languageServices{LanguageVisualBasic, cmdline.VisualBasicParser{}})
	return registry
}

// Register adds or replaces services for services.Language(). It's not safe to call concurrently with Resolve.
func (registry *LanguageServicesRegistry) Register(services LanguageServices) {
	registry.services[services.Language()] = services
}

func (registry *LanguageServicesRegistry) Resolve(language Language) (LanguageServices, error) {
	services, ok := registry.services[language]
	if !ok {
		return nil, fmt.Errorf("no language services for %s", language)
	}
	return services, nil
}
