package profile

import (
	"strings"

	"github.com/hazyhaar/jobfill/autofill/field"
)

// accessor reads one slot: the first non-empty path wins, then derive,
// then the literal default.
type accessor struct {
	paths  []string
	derive func(Profile) string
	def    string
}

var accessors = map[field.Slot]accessor{
	field.SlotFirstName: {paths: []string{"personalInfo.firstName"}},
	field.SlotLastName:  {paths: []string{"personalInfo.lastName"}},
	field.SlotFullName:  {paths: []string{"personalInfo.fullName"}, derive: fullName},
	field.SlotEmail:     {paths: []string{"personalInfo.email"}},
	field.SlotPhone:     {paths: []string{"personalInfo.phone"}},
	field.SlotAddress:   {paths: []string{"personalInfo.address"}},
	field.SlotCity:      {paths: []string{"personalInfo.city"}},
	field.SlotState:     {paths: []string{"personalInfo.state"}},
	field.SlotZipCode:   {paths: []string{"personalInfo.zipCode", "personalInfo.zip"}},
	field.SlotCountry:   {paths: []string{"personalInfo.country"}, def: "United States"},
	field.SlotLinkedIn:  {paths: []string{"personalInfo.linkedin", "personalInfo.linkedIn"}},
	field.SlotGitHub:    {paths: []string{"personalInfo.github"}},
	field.SlotPortfolio: {paths: []string{"personalInfo.portfolio", "personalInfo.website"}},
	field.SlotWebsite:   {paths: []string{"personalInfo.website", "personalInfo.portfolio"}},

	field.SlotCurrentTitle:    {paths: []string{"experience.currentTitle", "experience.positions.0.title"}},
	field.SlotCurrentCompany:  {paths: []string{"experience.currentCompany", "experience.positions.0.company"}},
	field.SlotYearsExperience: {paths: []string{"experience.yearsExperience", "experience.totalYears"}, def: "5"},
	field.SlotDegree:          {paths: []string{"education.degree", "education.schools.0.degree"}, def: "Bachelor's Degree"},
	field.SlotSchool:          {paths: []string{"education.school", "education.schools.0.school"}},
	field.SlotMajor:           {paths: []string{"education.major", "education.schools.0.major"}},
	field.SlotGraduationYear:  {paths: []string{"education.graduationYear", "education.schools.0.graduationYear"}},
	field.SlotSkills:          {paths: []string{"skills.summary"}, derive: skillList},
	field.SlotResume:          {paths: []string{"documents.resumeText"}},
	field.SlotCoverLetter: {
		paths: []string{"documents.coverLetter", "applicationQuestions.coverLetter"},
		def:   "I am excited to apply for this position and believe my experience is a strong match for the role.",
	},

	field.SlotAutomationAI: {
		paths: []string{"applicationQuestions.automationAI"},
		def:   "I led the rollout of an AI-assisted automation that removed manual triage from our support workflow and cut handling time significantly.",
	},
	field.SlotTeamManagement: {
		paths: []string{"applicationQuestions.teamManagement"},
		def:   "I have managed small cross-functional teams, focusing on clear goals, regular one-on-ones and removing blockers.",
	},
	field.SlotBiggestChallenge: {
		paths: []string{"applicationQuestions.biggestChallenge"},
		def:   "My biggest challenge was delivering a critical migration on a tight deadline; I broke it into small milestones and shipped on time.",
	},
	field.SlotWhyRole: {
		paths: []string{"applicationQuestions.whyRole", "applicationQuestions.whyPosition"},
		def:   "The role matches my experience and the problems I most enjoy working on.",
	},
	field.SlotWhyCompany: {
		paths: []string{"applicationQuestions.whyCompany"},
		def:   "I admire the company's mission and the quality of its products, and I want to contribute to that work.",
	},
	field.SlotGreatestStrength: {
		paths: []string{"applicationQuestions.greatestStrength"},
		def:   "Breaking ambiguous problems into concrete, shippable steps.",
	},
	field.SlotCareerGoals: {
		paths: []string{"applicationQuestions.careerGoals"},
		def:   "To grow into a technical leadership role while staying close to the work.",
	},
	field.SlotLeadershipExperience: {
		paths: []string{"applicationQuestions.leadershipExperience"},
		def:   "I have led project teams through planning, delivery and post-launch iteration.",
	},
	field.SlotAdditionalInfo: {paths: []string{"applicationQuestions.additionalInfo"}},

	field.SlotAutomationExperience: {
		paths: []string{"commonQuestions.automationExperience"},
		def:   "I have several years of experience automating workflows with scripts, CI pipelines and integration tools.",
	},
	field.SlotRemoteWork: {paths: []string{"commonQuestions.remoteWork", "preferences.remoteWork"}, def: "Yes"},
	field.SlotTeamwork: {
		paths: []string{"commonQuestions.teamwork"},
		def:   "I work best in collaborative teams with open communication and shared ownership.",
	},
	field.SlotConflictResolution: {
		paths: []string{"commonQuestions.conflictResolution"},
		def:   "I address disagreements early and directly, focusing on shared goals and facts.",
	},
	field.SlotCommunication: {
		paths: []string{"commonQuestions.communicationSkills"},
		def:   "Clear, concise and written-first, with regular updates to stakeholders.",
	},
	field.SlotProblemSolving: {
		paths: []string{"commonQuestions.problemSolving"},
		def:   "I start from the data, form a hypothesis, test the smallest change and iterate.",
	},
	field.SlotReferralSource: {paths: []string{"commonQuestions.referralSource", "preferences.referralSource"}, def: "Company website"},

	field.SlotWillingToRelocate:      {paths: []string{"preferences.willingToRelocate"}, def: "Yes"},
	field.SlotWorkAuthorization:      {paths: []string{"preferences.workAuthorization"}, def: "Yes"},
	field.SlotRequireSponsorship:     {paths: []string{"preferences.requireSponsorship"}, def: "No"},
	field.SlotStartDate:              {paths: []string{"preferences.startDate"}, def: "Immediately"},
	field.SlotSalaryExpectation:      {paths: []string{"preferences.salaryExpectation", "preferences.salary"}, def: "Negotiable"},
	field.SlotBackgroundCheck:        {paths: []string{"preferences.backgroundCheck"}, def: "Yes"},
	field.SlotDrugTest:               {paths: []string{"preferences.drugTest"}, def: "Yes"},
	field.SlotCitizenship:            {paths: []string{"preferences.citizenship", "personalInfo.citizenship"}, def: "Yes"},
	field.SlotVeteranStatus:          {paths: []string{"personalInfo.veteranStatus"}, def: "I am not a protected veteran"},
	field.SlotDisabilityStatus:       {paths: []string{"personalInfo.disabilityStatus"}, def: "I do not wish to answer"},
	field.SlotDriversLicense:         {paths: []string{"preferences.driversLicense"}, def: "Yes"},
	field.SlotReliableTransportation: {paths: []string{"preferences.reliableTransportation"}, def: "Yes"},
	field.SlotMaritalStatus:          {paths: []string{"personalInfo.maritalStatus"}, def: "Prefer not to say"},
	field.SlotGender:                 {paths: []string{"personalInfo.gender"}, def: "Prefer not to say"},
	field.SlotEthnicity:              {paths: []string{"personalInfo.ethnicity"}, def: "Prefer not to say"},
	field.SlotDateOfBirth:            {paths: []string{"personalInfo.dateOfBirth"}},
	field.SlotOver18:                 {paths: []string{"preferences.over18"}, def: "Yes"},
}

// ValueFor returns the form value for slot. It is total over the slot
// enumeration: a missing profile value yields the literal default, which
// may be the empty string. ok is false only for a slot outside the
// enumeration.
func ValueFor(slot field.Slot, p Profile) (value string, ok bool) {
	a, found := accessors[slot]
	if !found {
		return "", false
	}
	if p == nil {
		p = Profile{}
	}
	for _, path := range a.paths {
		if v := strings.TrimSpace(p.String(path)); v != "" {
			return v, true
		}
	}
	if a.derive != nil {
		if v := strings.TrimSpace(a.derive(p)); v != "" {
			return v, true
		}
	}
	return a.def, true
}

// Default returns the literal default of slot.
func Default(slot field.Slot) (string, bool) {
	a, ok := accessors[slot]
	return a.def, ok
}

func fullName(p Profile) string {
	return strings.TrimSpace(p.String("personalInfo.firstName") + " " + p.String("personalInfo.lastName"))
}

// skillList joins the skill categories in a fixed order, deduplicated.
func skillList(p Profile) string {
	seen := map[string]bool{}
	var out []string
	for _, cat := range []string{"technical", "programming", "frameworks", "tools", "soft_skills", "languages", "list"} {
		v, ok := p.Lookup("skills." + cat)
		if !ok {
			continue
		}
		for _, s := range strings.Split(render(v), ",") {
			s = strings.TrimSpace(s)
			if s != "" && !seen[strings.ToLower(s)] {
				seen[strings.ToLower(s)] = true
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		if s, ok := p.Lookup("skills"); ok {
			if _, isMap := asMap(s); !isMap {
				return render(s)
			}
		}
	}
	return strings.Join(out, ", ")
}
