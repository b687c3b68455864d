package normalize

// glossary maps German professional terms to English. Keys are lowercase.
var glossary = map[string]string{
	// technical
	"programmierung":         "programming",
	"softwareentwicklung":    "software development",
	"datenanalyse":           "data analysis",
	"maschinelles lernen":    "machine learning",
	"künstliche intelligenz": "artificial intelligence",
	"datenbank":              "database",
	"datenbanken":            "database",
	"frontend":               "frontend",
	"backend":                "backend",
	"webentwicklung":         "web development",
	"mobile entwicklung":     "mobile development",
	"netzwerktechnik":        "networking",
	"systemadministration":   "system administration",
	"informationssicherheit": "information security",
	"qualitätssicherung":     "quality assurance",
	"testautomatisierung":    "test automation",
	"cloud-infrastruktur":    "cloud infrastructure",

	// business
	"projektmanagement":   "project management",
	"teamführung":         "team leadership",
	"kundenbetreuung":     "customer service",
	"vertrieb":            "sales",
	"marketing":           "marketing",
	"buchhaltung":         "accounting",
	"controlling":         "controlling",
	"betriebswirtschaft":  "business administration",
	"rechnungswesen":      "accounting",
	"qualitätsmanagement": "quality management",
	"personalwesen":       "human resources",
	"einkauf":             "procurement",

	// office tools
	"tabellenkalkulation": "spreadsheet",
	"präsentation":        "presentation",
	"textverarbeitung":    "word processing",

	// soft skills
	"kommunikation":  "communication",
	"teamarbeit":     "teamwork",
	"problemlösung":  "problem solving",
	"kreativität":    "creativity",
	"führung":        "leadership",
	"zeitmanagement": "time management",

	// languages
	"deutsch":     "german",
	"englisch":    "english",
	"französisch": "french",
	"spanisch":    "spanish",
	"italienisch": "italian",
	"chinesisch":  "chinese",
	"japanisch":   "japanese",
}

// synonyms folds abbreviations and spelling variants. Keys are lowercase.
var synonyms = map[string]string{
	"js":                      "javascript",
	"ts":                      "typescript",
	"py":                      "python",
	"golang":                  "go",
	"react.js":                "react",
	"reactjs":                 "react",
	"vue.js":                  "vue",
	"vuejs":                   "vue",
	"node.js":                 "nodejs",
	"k8s":                     "kubernetes",
	"postgres":                "postgresql",
	"ms office":               "microsoft office",
	"ms word":                 "microsoft word",
	"ms excel":                "microsoft excel",
	"ms powerpoint":           "microsoft powerpoint",
	"sap fi/co":               "sap fico",
	"sap fi co":               "sap fico",
	"ui/ux":                   "ui ux design",
	"machine learning":        "ml",
	"artificial intelligence": "ai",
	"deep learning":           "dl",
}
