package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRules is the built-in pattern table. Content creation requests carry
// the highest priority because they are the assistant's main use.
var DefaultRules = []Rule{
	{
		Category: CategoryScriptGeneration,
		Priority: 60,
		Patterns: []string{
			`roteiros?`,
			`\bscripts?\b`,
			`\breels?\b`,
			`\bstor(y|ies)\b`,
			`legendas?`,
			`carross[eé]i?s?`,
			`\bpost(s|agem|agens)?\b`,
			`instagram|tiktok`,
			`v[ií]deo curto`,
			`\bcopy\b`,
		},
	},
	{
		Category: CategoryMarketingStrategy,
		Priority: 50,
		Patterns: []string{
			`estrat[eé]gias?`,
			`campanhas?`,
			`an[uú]ncios?`,
			`tr[aá]fego`,
			`funil`,
			`capta[cç][aã]o`,
			`diagn[oó]stico`,
			`posicionamento`,
			`\bmarketing\b`,
			`agendamentos?`,
		},
	},
	{
		Category: CategoryEquipmentConsultation,
		Priority: 40,
		Patterns: []string{
			`equipamentos?`,
			`aparelhos?`,
			`\blaser\b`,
			`ultrassom|\bhifu\b`,
			`radiofrequ[eê]ncia`,
			`criolip[oó]lise`,
			`tecnologias?`,
			`protocolos?`,
			`par[aâ]metros?`,
		},
	},
	{
		Category: CategoryScientificArticles,
		Priority: 30,
		Patterns: []string{
			`artigos?`,
			`estudos?`,
			`cient[ií]fic[oa]s?`,
			`pesquisas?`,
			`evid[eê]ncias?`,
			`pubmed`,
			`refer[eê]ncias?`,
			`publica[cç][aãõo]`,
		},
	},
	{
		Category: CategoryLearning,
		Priority: 20,
		Patterns: []string{
			`cursos?`,
			`\baulas?\b`,
			`aprender`,
			`m[oó]dulos?`,
			`academy|academia`,
			`certificad[oa]s?`,
			`trilha`,
			`ensin(a|ar|o)`,
		},
	},
	{
		Category: CategoryVideoLibrary,
		Priority: 10,
		Patterns: []string{
			`v[ií]deos?`,
			`assistir`,
			`tutoria(l|is)`,
			`demonstra[cç][aãõo]`,
			`youtube`,
		},
	},
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a rule table from a YAML file of the form
//
//	rules:
//	  - category: learning
//	    priority: 20
//	    patterns: ["cursos?", "aulas?"]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intents file %s: %w", path, err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing intents file %s: %w", path, err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("intents file %s has no rules", path)
	}
	return f.Rules, nil
}
