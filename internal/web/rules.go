package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/afreitas/revisio/internal/domain"
	"github.com/afreitas/revisio/internal/schedule"
)

func (s *Server) handleGetRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		rules, err := s.loadRules(r.Context(), sc)
		if err != nil {
			log.Printf("Error loading rules for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "rules", rulesView{Rules: rules})
	}
}

// handlePostRules drives the rules editor. The add and delete buttons edit
// the submitted rows without touching the store; only the save button
// validates and replaces the scope's rule set wholesale.
func (s *Server) handlePostRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		rules := parseRuleRows(r)

		if r.PostFormValue("action") == "add" {
			rules = append(rules, domain.Rule{Min: 0, Max: 0, Days: schedule.FallbackIntervalDays})
			s.render(w, "rules", rulesView{Rules: rules})
			return
		}
		if idx := r.PostFormValue("delete"); idx != "" {
			if i, err := strconv.Atoi(idx); err == nil && i >= 0 && i < len(rules) {
				rules = append(rules[:i], rules[i+1:]...)
			}
			s.render(w, "rules", rulesView{Rules: rules})
			return
		}

		validated, err := schedule.ValidateForSave(rules)
		if err != nil {
			s.render(w, "rules", rulesView{
				Rules:       rules,
				FieldErrors: ruleFieldErrors(err),
				Notice:      &notice{Kind: "err", Text: "Rules were not saved."},
			})
			return
		}
		if err := s.store.ReplaceRules(r.Context(), sc, validated); err != nil {
			log.Printf("Error replacing rules for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "rules", rulesView{
			Rules:  validated,
			Notice: &notice{Kind: "ok", Text: "Rules saved."},
		})
	}
}

// handleRulesPreview shows which band the submitted draft rules would pick
// for a trial accuracy. The draft is normalized but never persisted, so
// out-of-range rows still produce a usable preview.
func (s *Server) handleRulesPreview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.resolveScope(w, r); !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		rules := schedule.Normalize(parseRuleRows(r))
		accuracy := parseIntField(r.PostFormValue("accuracy"), 0)
		// Clamp before the band check so it agrees with the selection,
		// which clamps internally.
		if accuracy < 0 {
			accuracy = 0
		} else if accuracy > 100 {
			accuracy = 100
		}
		days := schedule.SelectIntervalDays(accuracy, rules)

		matched := false
		for _, rule := range rules {
			if accuracy >= rule.Min && accuracy <= rule.Max {
				matched = true
				break
			}
		}
		s.render(w, "rules_preview", rulesPreviewView{
			Accuracy:     accuracy,
			IntervalDays: days,
			Fallback:     !matched,
		})
	}
}

// parseRuleRows reads the parallel min/max/days columns of the rules form.
func parseRuleRows(r *http.Request) []domain.Rule {
	mins := r.PostForm["min"]
	maxes := r.PostForm["max"]
	days := r.PostForm["days"]

	var rules []domain.Rule
	for i := range mins {
		rule := domain.Rule{Min: parseIntField(mins[i], 0)}
		if i < len(maxes) {
			rule.Max = parseIntField(maxes[i], 0)
		}
		if i < len(days) {
			rule.Days = parseIntField(days[i], 0)
		}
		rules = append(rules, rule)
	}
	return rules
}

func ruleFieldErrors(err error) []string {
	var ruleErrs schedule.RuleErrors
	if !errors.As(err, &ruleErrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(ruleErrs))
	for _, fieldErr := range ruleErrs {
		messages = append(messages, fieldErr.Error())
	}
	return messages
}
