package symptoms

import (
	"strings"

	"github.com/clinify/backend/internal/catalog"
)

const minVariantLength = 3

type synonymEntry struct {
	symptom  string
	synonyms []string
}

// builtinSynonyms lists everyday phrasings of common symptoms. Order is the
// registry order for phrase matching.
var builtinSynonyms = []synonymEntry{
	{"headache", []string{"migraine", "head pressure", "head hurts", "head is pounding", "pounding head"}},
	{"fever", []string{"high temperature", "feverish", "running a temperature", "temperature of"}},
	{"cough", []string{"coughing", "hacking"}},
	{"dry cough", []string{"tickly cough", "non-productive cough"}},
	{"sore throat", []string{"throat pain", "scratchy throat", "throat hurts", "painful throat"}},
	{"runny nose", []string{"nose is running", "dripping nose", "nasal discharge"}},
	{"congestion", []string{"stuffy nose", "blocked nose", "nasal congestion", "stuffed up"}},
	{"sneezing", []string{"sneeze", "sneezes"}},
	{"fatigue", []string{"tired", "exhausted", "exhaustion", "worn out", "no energy", "lethargic"}},
	{"nausea", []string{"nauseous", "queasy", "feel sick", "sick to my stomach"}},
	{"vomiting", []string{"throwing up", "threw up", "vomit", "puking"}},
	{"diarrhea", []string{"loose stools", "watery stools", "runny stool"}},
	{"stomach pain", []string{"stomach ache", "stomachache", "belly pain", "tummy ache", "abdominal pain", "cramps"}},
	{"chest pain", []string{"chest hurts", "pain in my chest", "chest pressure"}},
	{"chest tightness", []string{"tight chest", "chest feels tight"}},
	{"shortness of breath", []string{"short of breath", "breathless", "out of breath", "can't catch my breath", "cannot breathe"}},
	{"difficulty breathing", []string{"trouble breathing", "hard to breathe", "struggling to breathe", "labored breathing"}},
	{"wheezing", []string{"wheeze", "whistling breath"}},
	{"dizziness", []string{"dizzy", "lightheaded", "light-headed", "vertigo", "room spinning"}},
	{"body aches", []string{"body ache", "aching all over", "muscle aches", "muscle pain", "achy"}},
	{"chills", []string{"shivering", "shivers", "feeling cold"}},
	{"sweating", []string{"sweaty", "night sweats", "sweats"}},
	{"insomnia", []string{"can't sleep", "cannot sleep", "trouble sleeping", "sleepless"}},
	{"rash", []string{"skin rash", "hives", "red spots", "itchy skin"}},
	{"itchy eyes", []string{"eyes itch", "itching eyes"}},
	{"watery eyes", []string{"teary eyes", "eyes watering"}},
	{"blurred vision", []string{"blurry vision", "vision is blurry", "can't see clearly"}},
	{"sensitivity to light", []string{"light sensitivity", "light hurts my eyes", "photophobia"}},
	{"loss of smell", []string{"can't smell", "cannot smell", "lost my sense of smell"}},
	{"loss of taste", []string{"can't taste", "cannot taste", "lost my sense of taste"}},
	{"difficulty swallowing", []string{"trouble swallowing", "hard to swallow", "painful swallowing"}},
	{"frequent urination", []string{"peeing a lot", "urinating often", "always need to pee"}},
	{"painful urination", []string{"burning when i pee", "burning urination", "hurts to pee"}},
	{"rapid heartbeat", []string{"racing heart", "heart racing", "palpitations", "heart pounding"}},
	{"heartburn", []string{"acid reflux", "burning in my chest", "indigestion"}},
	{"increased thirst", []string{"always thirsty", "very thirsty", "excessive thirst"}},
	{"neck pain", []string{"stiff neck", "neck hurts"}},
}

// Registry maps each canonical symptom to its phrasings. Immutable once built.
type Registry struct {
	order    []string
	variants map[string][]string
}

// NewRegistry merges the built-in synonym table with the catalog's symptoms
// and their mechanical variants.
func NewRegistry(cat *catalog.Catalog) *Registry {
	r := &Registry{variants: make(map[string][]string)}

	for _, entry := range builtinSynonyms {
		r.add(entry.symptom, entry.symptom)
		r.add(entry.symptom, entry.synonyms...)
	}

	if cat != nil {
		for _, s := range cat.Symptoms() {
			r.add(s, s)
			r.add(s, mechanicalVariants(s)...)
		}
	}

	return r
}

func (r *Registry) add(symptom string, phrases ...string) {
	key := catalog.Canonical(symptom)
	existing, known := r.variants[key]
	if !known {
		r.order = append(r.order, key)
	}

	for _, p := range phrases {
		p = Normalize(strings.TrimSpace(p))
		if len(p) < minVariantLength || contains(existing, p) {
			continue
		}
		existing = append(existing, p)
	}
	r.variants[key] = existing
}

// Symptoms returns the canonical symptoms in registry order.
func (r *Registry) Symptoms() []string {
	return append([]string(nil), r.order...)
}

// Variants returns the phrasings for symptom, canonical form first.
func (r *Registry) Variants(symptom string) []string {
	return append([]string(nil), r.variants[catalog.Canonical(symptom)]...)
}

func mechanicalVariants(s string) []string {
	var out []string
	if strings.Contains(s, " ") {
		out = append(out, strings.ReplaceAll(s, " ", ""))
		out = append(out, strings.ReplaceAll(s, " ", "-"))
	}
	if strings.Contains(s, "-") {
		out = append(out, strings.ReplaceAll(s, "-", " "))
	}

	swaps := [][2]string{
		{"pain", "ache"},
		{"ache", "pain"},
		{"difficulty", "trouble"},
		{"trouble", "difficulty"},
	}
	for _, sw := range swaps {
		if strings.Contains(s, sw[0]) {
			out = append(out, strings.ReplaceAll(s, sw[0], sw[1]))
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
