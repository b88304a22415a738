package analytics

// Headline words scored by Sentiment. Matching is substring based on lowercased text.
var positiveWords = []string{
	"beat",
	"surge",
	"record",
	"upgrade",
	"growth",
	"gain",
	"rally",
	"strong",
	"profit rise",
	"outperform",
	"expansion",
	"bullish",
	"buyback",
	"dividend",
	"order win",
	"approval",
	"raises guidance",
	"jumps",
	"soars",
	"rebound",
}

var negativeWords = []string{
	"misses",
	"decline",
	"slump",
	"downgrade",
	"loss",
	"weak",
	"fraud",
	"probe",
	"lawsuit",
	"penalty",
	"default",
	"bearish",
	"layoff",
	"resigns",
	"cuts guidance",
	"plunge",
	"falls",
	"tumbles",
	"investigation",
	"pledge",
}
