package ui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a small CSS dialect: selectors .class, #id or a type name (comma lists
// allowed) and blocks of "key: value;". At-rules and anything with combinators are skipped.
// Later rules override earlier ones for the same property.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)
	var (
		pending   []string // selectors before a comma, from QualifiedRuleGrammar
		current   []string // selectors of the open ruleset; nil inside skipped blocks
		props     map[string]string
		skipDepth int
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("ui: parse css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			skipDepth++
		case css.EndAtRuleGrammar:
			if skipDepth > 0 {
				skipDepth--
			}
		case css.QualifiedRuleGrammar:
			pending = append(pending, selectors(p.Values())...)
		case css.BeginRulesetGrammar:
			if skipDepth > 0 {
				pending, current = nil, nil
				continue
			}
			current = append(pending, selectors(p.Values())...)
			pending = nil
			props = make(map[string]string)
		case css.DeclarationGrammar:
			if current == nil {
				continue
			}
			props[strings.ToLower(string(data))] = joinValues(p.Values())
		case css.EndRulesetGrammar:
			for _, sel := range current {
				rule := Rule{Selector: sel, Props: make(map[string]string, len(props))}
				for k, v := range props {
					rule.Props[k] = v
				}
				sheet.Rules = append(sheet.Rules, rule)
			}
			current = nil
		}
	}
}

// selectors splits the selector tokens of a ruleset on commas and keeps the simple ones.
func selectors(tokens []css.Token) []string {
	var out []string
	var b bytes.Buffer
	flush := func() {
		sel := strings.TrimSpace(b.String())
		b.Reset()
		if simpleSelector(sel) {
			out = append(out, sel)
		}
	}
	for _, t := range tokens {
		if t.TokenType == css.CommaToken {
			flush()
			continue
		}
		b.Write(t.Data)
	}
	flush()
	return out
}

func simpleSelector(sel string) bool {
	if sel == "" || strings.ContainsAny(sel, " >+~:[*") {
		return false
	}
	if sel[0] == '.' || sel[0] == '#' {
		return len(sel) > 1
	}
	return true
}

func joinValues(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}
