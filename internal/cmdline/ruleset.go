package cmdline

import (
	"encoding/xml"
	"os"
	"strings"
)

// A rule set file, as referenced by /ruleset:
//
//	<RuleSet Name="..." ToolsVersion="16.0">
//	  <IncludeAll Action="Warning" />
//	  <Rules AnalyzerId="..." RuleNamespace="...">
//	    <Rule Id="CA1001" Action="Error" />
//	  </Rules>
//	</RuleSet>
//
// <Include Path="..."/> of other rule sets is ignored: it would dereference one more recorded path.
type ruleSetXML struct {
	XMLName    xml.Name `xml:"RuleSet"`
	IncludeAll *struct {
		Action string `xml:"Action,attr"`
	} `xml:"IncludeAll"`
	Rules []struct {
		Rule []struct {
			ID     string `xml:"Id,attr"`
			Action string `xml:"Action,attr"`
		} `xml:"Rule"`
	} `xml:"Rules"`
}

type ruleSet struct {
	generalOption   ReportDiagnostic
	specificOptions map[string]ReportDiagnostic
}

func parseRuleSetAction(action string) (ReportDiagnostic, bool) {
	switch strings.ToLower(action) {
	case "error":
		return ReportError, true
	case "warning":
		return ReportWarn, true
	case "info":
		return ReportInfo, true
	case "hidden":
		return ReportHidden, true
	case "none":
		return ReportSuppress, true
	case "default":
		return ReportDefault, true
	}
	return ReportDefault, false
}

func loadRuleSet(ruleSetPath string) (*ruleSet, error) {
	contents, err := os.ReadFile(ruleSetPath)
	if err != nil {
		return nil, &ParseError{Arg: ruleSetPath, Msg: "can't read rule set", Err: err}
	}

	var parsed ruleSetXML
	if err := xml.Unmarshal(contents, &parsed); err != nil {
		return nil, &ParseError{Arg: ruleSetPath, Msg: "malformed rule set", Err: err}
	}

	result := &ruleSet{specificOptions: make(map[string]ReportDiagnostic)}
	if parsed.IncludeAll != nil {
		report, ok := parseRuleSetAction(parsed.IncludeAll.Action)
		if !ok {
			return nil, newParseError(ruleSetPath, "invalid IncludeAll action %q", parsed.IncludeAll.Action)
		}
		result.generalOption = report
	}
	for _, rules := range parsed.Rules {
		for _, rule := range rules.Rule {
			report, ok := parseRuleSetAction(rule.Action)
			if !ok || rule.ID == "" {
				return nil, newParseError(ruleSetPath, "invalid rule %q with action %q", rule.ID, rule.Action)
			}
			result.specificOptions[strings.ToUpper(rule.ID)] = report
		}
	}
	return result, nil
}
