package symptoms

import "regexp"

const snippetPad = 30

type taggedPattern struct {
	tag   string
	regex *regexp.Regexp
}

// Tried in order; the first match is the duration.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\s*(?:days?|weeks?|months?|years?)\b`),
	regexp.MustCompile(`\bsince\s+(?:yesterday|today|this\s+(?:morning|afternoon|week|month)|last\s+(?:night|week|month|year|\w+day)|(?:a|an|one|two|three|few|\d+)\s+(?:days?|weeks?|months?|years?)\s+ago)\b`),
	regexp.MustCompile(`\bfor\s+(?:the\s+(?:past|last)\s+)?(?:a|an|one|two|three|four|five|six|seven|eight|nine|ten|a\s+few|few|several|a\s+couple\s+of|couple\s+of|\d+)\s+(?:days?|weeks?|months?|years?)\b`),
	regexp.MustCompile(`\b(?:acute|chronic|intermittent|constant|recurring)\b`),
}

// Scanned mild, moderate, severe; the first class with a hit wins.
var severityPatterns = []taggedPattern{
	{"mild", regexp.MustCompile(`\b(?:mild|slight|slightly|minor|a\s+little)\b`)},
	{"moderate", regexp.MustCompile(`\b(?:moderate|medium|manageable|noticeable)\b`)},
	{"severe", regexp.MustCompile(`\b(?:severe|intense|extreme|unbearable|excruciating|terrible|worst|debilitating)\b`)},
}

var historyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdiagnos(?:ed|is)\b`),
	regexp.MustCompile(`\bhistory\s+of\b`),
	regexp.MustCompile(`\b(?:surger(?:y|ies)|operation)\b`),
	regexp.MustCompile(`\b(?:medications?|medicines?|prescribed|prescription)\b`),
	regexp.MustCompile(`\ballerg(?:y|ies|ic)\b`),
}

var lifestylePatterns = []taggedPattern{
	{"diet", regexp.MustCompile(`\b(?:diet|eat|eating|ate|food|meals?|sugar|junk\s+food|fast\s+food|caffeine|coffee)\b`)},
	{"exercise", regexp.MustCompile(`\b(?:exercis\w*|workouts?|gym|running|jogging|sedentary|sports?)\b`)},
	{"sleep", regexp.MustCompile(`\b(?:sleep\w*|slept|insomnia|naps?|bedtime)\b`)},
	{"stress", regexp.MustCompile(`\b(?:stress\w*|anxious|anxiety|worried|pressure\s+at\s+work|overwhelmed)\b`)},
	{"substance", regexp.MustCompile(`\b(?:smok\w*|cigarettes?|vap\w*|alcohol|drinking|beers?|wine|drugs?)\b`)},
	{"occupation", regexp.MustCompile(`\b(?:work\w*|job|office|shifts?|occupation|desk)\b`)},
}

var riskFactorPatterns = []taggedPattern{
	{"smoking", regexp.MustCompile(`\b(?:smok(?:e|er|es|ing)|cigarettes?)\b`)},
	{"obesity", regexp.MustCompile(`\b(?:obese|obesity|overweight)\b`)},
	{"diabetes", regexp.MustCompile(`\bdiabet(?:es|ic)\b`)},
	{"high blood pressure", regexp.MustCompile(`\b(?:high\s+blood\s+pressure|hypertension)\b`)},
	{"family history", regexp.MustCompile(`\bfamily\s+history\b|\b(?:mother|father|mom|dad|parents?|brother|sister)\s+(?:has|had)\b`)},
	{"pregnancy", regexp.MustCompile(`\bpregnan(?:t|cy)\b`)},
	{"older age", regexp.MustCompile(`\b(?:[6-9]\d|1[01]\d)\s*(?:years?\s+old|y/?o)\b|\belderly\b`)},
	{"weakened immune system", regexp.MustCompile(`\b(?:immunocompromised|weak(?:ened)?\s+immune\s+system|chemotherapy)\b`)},
	{"allergies", regexp.MustCompile(`\ballerg(?:y|ies|ic)\b`)},
	{"sedentary lifestyle", regexp.MustCompile(`\bsedentary\b|\b(?:no|little|lack\s+of)\s+exercise\b`)},
	{"alcohol use", regexp.MustCompile(`\balcohol\b|\bdrink(?:ing)?\s+(?:heavily|a\s+lot)\b`)},
	{"exposure to sick contacts", regexp.MustCompile(`\b(?:sick|ill)\s+(?:family|kids?|children|coworkers?|co-workers?|friends?|contacts?|roommates?)\b|\bexposed\s+to\b`)},
	{"travel", regexp.MustCompile(`\b(?:travel\w*|trip|flight|abroad)\b`)},
	{"stress", regexp.MustCompile(`\b(?:stress\w*|overwhelmed)\b`)},
}

var environmentalPatterns = []taggedPattern{
	{"pollen", regexp.MustCompile(`\b(?:pollen|hay\s+fever|grass|trees?\s+blooming)\b`)},
	{"dust", regexp.MustCompile(`\bdust\w*\b`)},
	{"mold", regexp.MustCompile(`\b(?:mold|mould|damp)\b`)},
	{"pets", regexp.MustCompile(`\b(?:pets?|cats?|dogs?|dander)\b`)},
	{"smoke", regexp.MustCompile(`\b(?:second-?hand\s+smoke|wildfire|smoky)\b`)},
	{"air pollution", regexp.MustCompile(`\b(?:pollution|smog|fumes)\b`)},
	{"cold weather", regexp.MustCompile(`\b(?:cold\s+weather|winter|freezing)\b`)},
	{"heat", regexp.MustCompile(`\b(?:heat\s*wave|hot\s+weather|sun\s+exposure)\b`)},
	{"chemicals", regexp.MustCompile(`\b(?:chemicals?|solvents?|pesticides?)\b`)},
	{"crowds", regexp.MustCompile(`\b(?:crowds?|crowded|daycare|school)\b`)},
}

// Brand and generic names map to one tag per medication.
var medicationPatterns = []taggedPattern{
	{"acetaminophen", regexp.MustCompile(`\b(?:acetaminophen|paracetamol|tylenol)\b`)},
	{"ibuprofen", regexp.MustCompile(`\b(?:ibuprofen|advil|motrin)\b`)},
	{"aspirin", regexp.MustCompile(`\baspirin\b`)},
	{"naproxen", regexp.MustCompile(`\b(?:naproxen|aleve)\b`)},
	{"antibiotics", regexp.MustCompile(`\b(?:antibiotics?|amoxicillin|azithromycin|penicillin)\b`)},
	{"antihistamines", regexp.MustCompile(`\b(?:antihistamines?|benadryl|claritin|zyrtec|loratadine|cetirizine)\b`)},
	{"decongestants", regexp.MustCompile(`\b(?:decongestants?|sudafed|pseudoephedrine)\b`)},
	{"inhaler", regexp.MustCompile(`\b(?:inhalers?|albuterol|ventolin)\b`)},
	{"insulin", regexp.MustCompile(`\binsulin\b`)},
	{"metformin", regexp.MustCompile(`\bmetformin\b`)},
	{"blood pressure medication", regexp.MustCompile(`\b(?:lisinopril|amlodipine|losartan|blood\s+pressure\s+(?:meds|medication|pills))\b`)},
	{"steroids", regexp.MustCompile(`\b(?:steroids?|prednisone)\b`)},
	{"antacids", regexp.MustCompile(`\b(?:antacids?|tums|omeprazole|prilosec)\b`)},
	{"birth control", regexp.MustCompile(`\b(?:birth\s+control|contraceptives?)\b`)},
}

// extractClues fills ctx from lowered, the normalized request text.
func extractClues(lowered string, ctx *Context) {
	for _, re := range durationPatterns {
		if m := re.FindString(lowered); m != "" {
			ctx.Duration = m
			break
		}
	}

	for _, p := range severityPatterns {
		if p.regex.MatchString(lowered) {
			ctx.Severity = p.tag
			break
		}
	}

	for _, re := range historyPatterns {
		for _, loc := range re.FindAllStringIndex(lowered, -1) {
			ctx.MedicalHistory = append(ctx.MedicalHistory, window(lowered, loc[0], loc[1], snippetPad))
		}
	}

	ctx.Lifestyle = appendTags(ctx.Lifestyle, lifestylePatterns, lowered)
	ctx.RiskFactors = appendTags(ctx.RiskFactors, riskFactorPatterns, lowered)
	ctx.Environmental = appendTags(ctx.Environmental, environmentalPatterns, lowered)
	ctx.Medications = appendTags(ctx.Medications, medicationPatterns, lowered)
}

func appendTags(dst []string, patterns []taggedPattern, text string) []string {
	for _, p := range patterns {
		if p.regex.MatchString(text) {
			dst = append(dst, p.tag)
		}
	}
	return dst
}
