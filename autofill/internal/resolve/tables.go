package resolve

import "github.com/hazyhaar/jobfill/autofill/field"

// DefaultRules returns the built-in rule list in evaluation order.
func DefaultRules() []Rule {
	var rules []Rule
	rules = append(rules, applicationRules()...)
	rules = append(rules, commonRules()...)
	rules = append(rules, contextRules()...)
	rules = append(rules, platformRules()...)
	rules = append(rules, exactRules()...)
	rules = append(rules, fuzzyRules()...)
	return rules
}

func applicationRules() []Rule {
	l := LayerApplication
	return []Rule{
		rule(l, "automation_ai", field.SlotAutomationAI, allOf(
			[]string{"automation"},
			[]string{"ai", "artificial intelligence", "machine learning"},
			[]string{"biggest", "rolled out", "implemented", "deployed"},
		)),
		rule(l, "team_management", field.SlotTeamManagement, allOf(
			[]string{"team", "direct reports", "people"},
			[]string{"manag", "supervis"},
			[]string{"describe", "tell us", "experience", "how", "example"},
		)),
		rule(l, "biggest_challenge", field.SlotBiggestChallenge, allOf(
			[]string{"challenge", "obstacle", "difficult situation"},
			[]string{"biggest", "greatest", "most significant", "describe", "tell us"},
		)),
		rule(l, "why_role", field.SlotWhyRole, allOf(
			[]string{"why"},
			[]string{"role", "position", "this job", "opportunity"},
			[]string{"interest", "apply", "applying", "excite", "want"},
		)),
		rule(l, "why_company", field.SlotWhyCompany, allOf(
			[]string{"why"},
			[]string{"company", "join", "work here", "work for", "organization", "us"},
		)),
		rule(l, "greatest_strength", field.SlotGreatestStrength, allOf(
			[]string{"strength"},
			[]string{"greatest", "biggest", "key", "top", "main", "what are"},
		)),
		rule(l, "career_goals", field.SlotCareerGoals, allOf(
			[]string{"goal", "see yourself", "five years", "5 years"},
			[]string{"career", "professional", "future", "where do you"},
		)),
		rule(l, "leadership", field.SlotLeadershipExperience, allOf(
			[]string{"leadership", "led a", "you led"},
			[]string{"example", "describe", "tell us", "experience", "time"},
		)),
		rule(l, "additional_info", field.SlotAdditionalInfo, allOf(
			[]string{"anything else", "additional information", "additional comments"},
			[]string{"share", "know", "add", "provide", "like", "information", "comments"},
		)),
	}
}

func commonRules() []Rule {
	l := LayerCommon
	return []Rule{
		rule(l, "automation_experience", field.SlotAutomationExperience, allOf(
			[]string{"automation", "automate"},
			[]string{"experience", "familiar"},
		)),
		rule(l, "remote_work", field.SlotRemoteWork, allOf(
			[]string{"remote", "work from home", "hybrid"},
			[]string{"work", "comfortable", "experience", "open"},
		)),
		rule(l, "teamwork", field.SlotTeamwork, allOf(
			[]string{"team"},
			[]string{"work", "collaborat", "player"},
		)),
		rule(l, "conflict", field.SlotConflictResolution, allOf(
			[]string{"conflict", "disagree"},
			[]string{"resolv", "handle", "coworker", "colleague", "team", "manager"},
		)),
		rule(l, "communication", field.SlotCommunication, allOf(
			[]string{"communicat"},
			[]string{"skill", "style", "describe"},
		)),
		rule(l, "problem_solving", field.SlotProblemSolving, allOf(
			[]string{"problem"},
			[]string{"solv", "approach"},
		)),
		rule(l, "referral", field.SlotReferralSource, allOf(
			[]string{"hear", "find", "learn"},
			[]string{"about", "of this", "this position", "this job"},
		)),
	}
}

func contextRules() []Rule {
	l := LayerContext
	return []Rule{
		rule(l, "relocation", field.SlotWillingToRelocate, anyOf("relocat")),
		rule(l, "work_authorization", field.SlotWorkAuthorization, workAuthorization()),
		rule(l, "sponsorship", field.SlotRequireSponsorship, anyOf("sponsor", "h-1b", "h1b", "visa status")),
		rule(l, "start_date", field.SlotStartDate, anyOf(
			"start date", "available to start", "when can you start", "earliest start", "notice period", "availability date")),
		rule(l, "salary", field.SlotSalaryExpectation, anyOf(
			"salary", "compensation", "pay expectation", "desired pay", "expected pay", "pay range")),
		rule(l, "experience", field.SlotYearsExperience, anyOf(
			"years of experience", "how many years", "experience do you have", "years of professional", "years experience")),
		rule(l, "skills", field.SlotSkills, anyOf("skills", "proficien", "technologies", "programming languages")),
		rule(l, "education", field.SlotDegree, anyOf(
			"highest level of education", "education level", "highest education", "degree")),
		rule(l, "background_check", field.SlotBackgroundCheck, anyOf(
			"background check", "background screening", "background investigation", "consent")),
		rule(l, "drug_test", field.SlotDrugTest, anyOf("drug test", "drug screen")),
		rule(l, "citizenship", field.SlotCitizenship, anyOf("citizen")),
		rule(l, "veteran", field.SlotVeteranStatus, anyOf("veteran", "military service", "armed forces")),
		rule(l, "disability", field.SlotDisabilityStatus, anyOf("disabilit")),
		rule(l, "drivers_license", field.SlotDriversLicense, anyOf(
			"driver's license", "drivers license", "driver's licence", "driving licen", "driver license")),
		rule(l, "transportation", field.SlotReliableTransportation, anyOf("transportation", "commute")),
		rule(l, "marital_status", field.SlotMaritalStatus, anyOf("marital")),
		rule(l, "gender", field.SlotGender, anyOf("gender", "sex")),
		rule(l, "ethnicity", field.SlotEthnicity, anyOf("ethnic", "racial", "your race", "hispanic", "latino")),
		rule(l, "date_of_birth", field.SlotDateOfBirth, anyOf("date of birth", "birth date", "birthday")),
		rule(l, "age", field.SlotOver18, anyOf("18 years", "over 18", "at least 18", "legal age")),
		rule(l, "remote", field.SlotRemoteWork, anyOf("remote", "work from home")),
	}
}

// platformRules is the fallback table for recognised application hosts.
func platformRules() []Rule {
	return []Rule{
		platformRule("workday", "first_name", field.SlotFirstName, attrContains("data-automation-id", "legalNameSection_firstName")),
		platformRule("workday", "last_name", field.SlotLastName, attrContains("data-automation-id", "legalNameSection_lastName")),
		platformRule("workday", "email", field.SlotEmail, attrContains("data-automation-id", "email")),
		platformRule("workday", "phone", field.SlotPhone, attrContains("data-automation-id", "phone-number", "phoneNumber")),
		platformRule("workday", "address", field.SlotAddress, attrContains("data-automation-id", "addressLine1")),
		platformRule("workday", "city", field.SlotCity, attrContains("data-automation-id", "addressSection_city")),
		platformRule("workday", "postal", field.SlotZipCode, attrContains("data-automation-id", "postalCode")),
		platformRule("workday", "country", field.SlotCountry, attrContains("data-automation-id", "countryDropdown")),
		platformRule("workday", "source", field.SlotReferralSource, attrContains("data-automation-id", "sourceDropdown", "sourcePrompt")),
		platformRule("workday", "linkedin", field.SlotLinkedIn, attrContains("data-automation-id", "linkedin")),

		platformRule("greenhouse", "first_name", field.SlotFirstName, attrEquals("name", "job_application[first_name]")),
		platformRule("greenhouse", "last_name", field.SlotLastName, attrEquals("name", "job_application[last_name]")),
		platformRule("greenhouse", "email", field.SlotEmail, attrEquals("name", "job_application[email]")),
		platformRule("greenhouse", "phone", field.SlotPhone, attrEquals("name", "job_application[phone]")),
		platformRule("greenhouse", "location", field.SlotCity, attrEquals("name", "job_application[location]")),

		platformRule("lever", "name", field.SlotFullName, attrEquals("name", "name")),
		platformRule("lever", "org", field.SlotCurrentCompany, attrEquals("name", "org")),
		platformRule("lever", "linkedin", field.SlotLinkedIn, attrEquals("name", "urls[LinkedIn]")),
		platformRule("lever", "github", field.SlotGitHub, attrEquals("name", "urls[GitHub]")),
		platformRule("lever", "portfolio", field.SlotPortfolio, attrEquals("name", "urls[Portfolio]")),
		platformRule("lever", "other_url", field.SlotWebsite, attrEquals("name", "urls[Other]")),
		platformRule("lever", "comments", field.SlotAdditionalInfo, attrEquals("name", "comments")),

		platformRule("icims", "first_name", field.SlotFirstName, attrContains("id", "PersonProfileFields.FirstName")),
		platformRule("icims", "last_name", field.SlotLastName, attrContains("id", "PersonProfileFields.LastName")),
		platformRule("icims", "email", field.SlotEmail, attrContains("id", "PersonProfileFields.Email")),
		platformRule("icims", "phone", field.SlotPhone, attrContains("id", "PhoneNumber")),

		platformRule("linkedin", "phone", field.SlotPhone, attrContains("id", "phoneNumber-nationalNumber")),
		platformRule("linkedin", "city", field.SlotCity, attrContains("id", "location-GEO-LOCATION")),

		platformRule("bamboohr", "first_name", field.SlotFirstName, attrEquals("name", "firstName")),
		platformRule("bamboohr", "last_name", field.SlotLastName, attrEquals("name", "lastName")),
	}
}

func exactRules() []Rule {
	l := LayerExact
	return []Rule{
		rule(l, "email", field.SlotEmail, identContains("email", "emailaddress", "e-mail")),
		rule(l, "phone", field.SlotPhone, identContains("phone", "mobile", "cellphone", "telephone")),
		rule(l, "linkedin", field.SlotLinkedIn, identContains("linkedin")),
		rule(l, "github", field.SlotGitHub, identContains("github")),
		rule(l, "portfolio", field.SlotPortfolio, identContains("portfolio")),
		rule(l, "website", field.SlotWebsite, identContains("website", "personalsite", "homepage")),
		rule(l, "first_name", field.SlotFirstName, identContains("firstname", "givenname", "namefirst", "forename")),
		rule(l, "last_name", field.SlotLastName, identContains("lastname", "surname", "familyname", "namelast")),
		rule(l, "full_name", field.SlotFullName, identContains("fullname", "yourname", "candidatename", "applicantname")),
		rule(l, "ethnicity", field.SlotEthnicity, identContains("ethnicity")),
		rule(l, "gender", field.SlotGender, identContains("gender")),
		rule(l, "veteran", field.SlotVeteranStatus, identContains("veteran")),
		rule(l, "disability", field.SlotDisabilityStatus, identContains("disability")),
		rule(l, "date_of_birth", field.SlotDateOfBirth, identContains("dateofbirth", "birthdate", "birthday")),
		rule(l, "cover_letter", field.SlotCoverLetter, identContains("coverletter")),
		rule(l, "resume", field.SlotResume, identContains("resumetext", "resume")),
		rule(l, "additional_info", field.SlotAdditionalInfo, identContains("additionalinfo", "additionalinformation", "statement", "comments")),
		rule(l, "address", field.SlotAddress, identContains("streetaddress", "addressline", "address1", "address")),
		rule(l, "city", field.SlotCity, identContains("city", "town")),
		rule(l, "state", field.SlotState, identContains("state", "province", "region")),
		rule(l, "zip", field.SlotZipCode, identContains("zip", "postal", "postcode")),
		rule(l, "country", field.SlotCountry, identContains("country")),
		rule(l, "company", field.SlotCurrentCompany, identContains("currentcompany", "employer", "companyname", "company")),
		rule(l, "title", field.SlotCurrentTitle, identContains("currenttitle", "jobtitle", "currentrole", "position")),
		rule(l, "years_experience", field.SlotYearsExperience, identContains("yearsofexperience", "yearsexperience", "experienceyears", "totalexperience")),
		rule(l, "school", field.SlotSchool, identContains("school", "university", "college", "institution")),
		rule(l, "degree", field.SlotDegree, identContains("degree", "qualification")),
		rule(l, "major", field.SlotMajor, identContains("major", "fieldofstudy", "discipline")),
		rule(l, "graduation", field.SlotGraduationYear, identContains("graduationyear", "gradyear", "graduationdate")),
		rule(l, "skills", field.SlotSkills, identContains("skills")),
		rule(l, "salary", field.SlotSalaryExpectation, identContains("salary", "compensation", "desiredpay")),
		rule(l, "start_date", field.SlotStartDate, identContains("startdate", "availabledate", "availability")),
		rule(l, "referral", field.SlotReferralSource, identContains("referral", "howdidyouhear", "source")),
	}
}

func fuzzyRules() []Rule {
	l := LayerFuzzy
	return []Rule{
		rule(l, "last", field.SlotLastName, identWord("last", "surname", "family", "lname")),
		rule(l, "first", field.SlotFirstName, identWord("first", "given", "fname", "name")),
		rule(l, "mail", field.SlotEmail, identWord("mail")),
		rule(l, "phone", field.SlotPhone, identWord("tel", "cell", "mobile", "contact")),
		rule(l, "city", field.SlotCity, identWord("city", "town", "location")),
		rule(l, "zip", field.SlotZipCode, identWord("zip", "postal", "postcode")),
		rule(l, "state", field.SlotState, identWord("state", "province")),
		rule(l, "country", field.SlotCountry, identWord("country", "nation")),
		rule(l, "url", field.SlotWebsite, identWord("url", "link", "site", "web")),
		rule(l, "company", field.SlotCurrentCompany, identWord("company", "employer", "org", "organization")),
		rule(l, "title", field.SlotCurrentTitle, identWord("title", "role", "position")),
		rule(l, "school", field.SlotSchool, identWord("school", "university", "college")),
		rule(l, "experience", field.SlotYearsExperience, identWord("experience", "years")),
		rule(l, "salary", field.SlotSalaryExpectation, identWord("salary", "pay", "wage")),
	}
}

// workAuthorization matches authorization questions, including "authorized
// to work without sponsorship", but leaves "will you require sponsorship for
// work authorization" to the sponsorship rule.
func workAuthorization() func(string, *Input) bool {
	authorized := anyOf(
		"authorized to work", "authorised to work", "work authorization", "legally authorized",
		"eligible to work", "right to work", "legally permitted")
	needsSponsor := allOf([]string{"sponsor"}, []string{"requir", "need"})
	return func(q string, in *Input) bool {
		if !authorized(q, in) {
			return false
		}
		return !needsSponsor(q, in) || hasTerm(q, "without")
	}
}
