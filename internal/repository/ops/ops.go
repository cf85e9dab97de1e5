package ops

// Firestore query operators
const (
	Equal         string = "=="
	NotEqual      string = "!="
	Greater       string = ">"
	GreaterEqual  string = ">="
	Less          string = "<"
	LessEqual     string = "<="
	In            string = "in"
	ArrayContains string = "array-contains"
)
