package vanilla

// ChromeClass is a typed identifier for the page's semantic CSS classes.
type ChromeClass string

const (
	ClassPage    ChromeClass = "loanform-page"
	ClassHeader  ChromeClass = "loanform-header"
	ClassForm    ChromeClass = "loanform-form"
	ClassActions ChromeClass = "loanform-actions"
	ClassNotice  ChromeClass = "loanform-notice"
	ClassTable   ChromeClass = "loanform-table"
	ClassEmpty   ChromeClass = "loanform-empty"
	ClassHidden  ChromeClass = "loanform-hidden"
)

// chromeClasses is handed to templates keyed by role.
func chromeClasses() map[string]string {
	return map[string]string{
		"page":    string(ClassPage),
		"header":  string(ClassHeader),
		"form":    string(ClassForm),
		"actions": string(ClassActions),
		"notice":  string(ClassNotice),
		"table":   string(ClassTable),
		"empty":   string(ClassEmpty),
		"hidden":  string(ClassHidden),
	}
}
