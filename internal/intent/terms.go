package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSearchTerms    = 8
	minSearchTermRune = 3
)

// stopwords are dropped from catalog search terms. Besides Portuguese
// function words the list carries request verbs and the generic nouns that
// only say which collection to read ("curso", "artigo"), since those match
// almost every row of that collection.
var stopwords = toSet(
	// function words
	"que", "qual", "quais", "quem", "como", "onde", "quando", "porque", "por", "para", "pra",
	"com", "sem", "sobre", "entre", "até", "desde", "uma", "umas", "uns", "dos", "das",
	"nos", "nas", "num", "numa", "pelo", "pela", "pelos", "pelas", "este", "esta", "esse",
	"essa", "isso", "isto", "aquele", "aquela", "meu", "minha", "meus", "minhas", "seu",
	"sua", "seus", "suas", "nosso", "nossa", "vocês", "você", "ele", "ela", "eles", "elas",
	"mais", "menos", "muito", "muita", "bem", "também", "ainda", "não", "sim", "mas",
	"são", "ser", "está", "estão", "tem", "têm", "ter", "foi", "vai",
	"tudo", "todo", "toda", "todos", "todas", "algum", "alguma", "alguns", "algumas", "olá",
	// request verbs
	"quero", "queria", "gostaria", "preciso", "precisa", "pode", "poderia", "faça", "fazer",
	"criar", "crie", "escreva", "escrever", "gere", "gerar", "mostre", "mostrar", "indique",
	"indicar", "sugira", "sugerir", "recomende", "recomendar", "existe", "existem", "algo",
	// collection nouns
	"curso", "cursos", "aula", "aulas", "roteiro", "roteiros", "script", "scripts", "post",
	"posts", "artigo", "artigos", "estudo", "estudos", "científico", "científicos",
	"científica", "científicas", "pesquisa", "pesquisas", "vídeo", "vídeos", "video",
	"videos", "videoteca", "equipamento", "equipamentos", "aparelho", "aparelhos",
	"instagram", "conteúdo", "conteúdos",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// SearchTerms returns the lowercased, deduplicated tokens of text that are
// worth matching against the catalog: at least three characters and not a
// stopword, taken from the whole text in input order, at most eight.
func SearchTerms(text string) []string {
	var (
		terms []string
		seen  = map[string]bool{}
	)
	for _, field := range strings.Fields(text) {
		token := strings.ToLower(strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		}))
		if utf8.RuneCountInString(token) < minSearchTermRune || seen[token] {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		seen[token] = true
		terms = append(terms, token)
		if len(terms) == maxSearchTerms {
			break
		}
	}
	return terms
}
