package profile

// Minimal is the profile used when the host coordinator cannot supply one.
// It carries no personal data; every slot then resolves to its default.
func Minimal() Profile {
	return Profile{
		"personalInfo":         map[string]any{"country": "United States"},
		"experience":           map[string]any{},
		"skills":               map[string]any{},
		"education":            map[string]any{},
		"documents":            map[string]any{},
		"applicationQuestions": map[string]any{},
		"commonQuestions":      map[string]any{},
		"preferences": map[string]any{
			"willingToRelocate":  "Yes",
			"workAuthorization":  "Yes",
			"requireSponsorship": "No",
		},
	}
}

// FromResume maps the structured resume returned by the enrichment service
// (contact, summary, experience[], education[], skills{}) onto profile
// categories. Unknown keys are ignored.
func FromResume(data map[string]any) Profile {
	p := Profile{}
	src := Profile(data)

	contact := map[string]string{
		"firstName": "contact.firstName",
		"lastName":  "contact.lastName",
		"email":     "contact.email",
		"phone":     "contact.phone",
		"address":   "contact.address",
		"city":      "contact.city",
		"state":     "contact.state",
		"zipCode":   "contact.zip",
		"country":   "contact.country",
		"linkedin":  "contact.linkedin",
		"github":    "contact.github",
		"website":   "contact.website",
	}
	for key, path := range contact {
		if v := src.String(path); v != "" {
			p.Set("personalInfo."+key, v)
		}
	}
	if p.String("personalInfo.firstName") == "" {
		if name := src.String("contact.name"); name != "" {
			first, last := splitName(name)
			p.Set("personalInfo.firstName", first)
			p.Set("personalInfo.lastName", last)
		}
	}

	if exp, ok := src.Lookup("experience"); ok {
		if list, ok := exp.([]any); ok && len(list) > 0 {
			p.Set("experience.positions", cloneValue(list))
			p.Set("experience.currentTitle", Profile{"x": list}.String("x.0.title"))
			p.Set("experience.currentCompany", Profile{"x": list}.String("x.0.company"))
		}
	}
	if edu, ok := src.Lookup("education"); ok {
		if list, ok := edu.([]any); ok && len(list) > 0 {
			p.Set("education.schools", cloneValue(list))
			first := Profile{"x": list}
			p.Set("education.degree", first.String("x.0.degree"))
			p.Set("education.school", first.String("x.0.school"))
			p.Set("education.major", first.String("x.0.field"))
			p.Set("education.graduationYear", first.String("x.0.year"))
		}
	}
	if skills, ok := src.Lookup("skills"); ok {
		if m, ok := asMap(skills); ok {
			p["skills"] = cloneMap(m)
		}
	}
	if s := src.String("summary"); s != "" {
		p.Set("documents.summary", s)
	}
	return p
}

// formDataPaths maps the flat keys of the service's per-platform form data
// onto profile paths.
var formDataPaths = map[string]string{
	"firstName":  "personalInfo.firstName",
	"lastName":   "personalInfo.lastName",
	"email":      "personalInfo.email",
	"phone":      "personalInfo.phone",
	"address":    "personalInfo.address",
	"city":       "personalInfo.city",
	"state":      "personalInfo.state",
	"zip":        "personalInfo.zipCode",
	"country":    "personalInfo.country",
	"company":    "experience.currentCompany",
	"title":      "experience.currentTitle",
	"experience": "experience.summary",
	"skills":     "skills.summary",
}

// FromFormData maps the flat form data the enrichment service returns for
// a platform (firstName, zip, company, skills, ...) onto profile
// categories. Empty and unknown keys are dropped.
func FromFormData(data map[string]any) Profile {
	p := Profile{}
	src := Profile(data)
	for key, path := range formDataPaths {
		if v := src.String(key); v != "" {
			p.Set(path, v)
		}
	}
	return p
}

func splitName(name string) (first, last string) {
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
