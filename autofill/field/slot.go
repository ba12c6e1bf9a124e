package field

// Slot is the semantic identity of a profile attribute a field may be asking
// for. It is the join point between the resolver and the profile accessor.
// The set is closed: AllSlots lists every member.
type Slot string

// Personal information.
const (
	SlotFirstName Slot = "firstName"
	SlotLastName  Slot = "lastName"
	SlotFullName  Slot = "fullName"
	SlotEmail     Slot = "email"
	SlotPhone     Slot = "phone"
	SlotAddress   Slot = "address"
	SlotCity      Slot = "city"
	SlotState     Slot = "state"
	SlotZipCode   Slot = "zipCode"
	SlotCountry   Slot = "country"
	SlotLinkedIn  Slot = "linkedin"
	SlotGitHub    Slot = "github"
	SlotPortfolio Slot = "portfolio"
	SlotWebsite   Slot = "website"
)

// Experience, education, skills and documents.
const (
	SlotCurrentTitle    Slot = "currentTitle"
	SlotCurrentCompany  Slot = "currentCompany"
	SlotYearsExperience Slot = "yearsExperience"
	SlotDegree          Slot = "degree"
	SlotSchool          Slot = "school"
	SlotMajor           Slot = "major"
	SlotGraduationYear  Slot = "graduationYear"
	SlotSkills          Slot = "skills"
	SlotResume          Slot = "resume"
	SlotCoverLetter     Slot = "coverLetter"
)

// Personalised long-form application answers.
const (
	SlotAutomationAI         Slot = "automationAI"
	SlotTeamManagement       Slot = "teamManagement"
	SlotBiggestChallenge     Slot = "biggestChallenge"
	SlotWhyRole              Slot = "whyRole"
	SlotWhyCompany           Slot = "whyCompany"
	SlotGreatestStrength     Slot = "greatestStrength"
	SlotCareerGoals          Slot = "careerGoals"
	SlotLeadershipExperience Slot = "leadershipExperience"
	SlotAdditionalInfo       Slot = "additionalInfo"
)

// Generic behavioural questions.
const (
	SlotAutomationExperience Slot = "automationExperience"
	SlotRemoteWork           Slot = "remoteWork"
	SlotTeamwork             Slot = "teamwork"
	SlotConflictResolution   Slot = "conflictResolution"
	SlotCommunication        Slot = "communicationSkills"
	SlotProblemSolving       Slot = "problemSolving"
	SlotReferralSource       Slot = "referralSource"
)

// Screening and self-identification questions.
const (
	SlotWillingToRelocate      Slot = "willingToRelocate"
	SlotWorkAuthorization      Slot = "workAuthorization"
	SlotRequireSponsorship     Slot = "requireSponsorship"
	SlotStartDate              Slot = "startDate"
	SlotSalaryExpectation      Slot = "salaryExpectation"
	SlotBackgroundCheck        Slot = "backgroundCheck"
	SlotDrugTest               Slot = "drugTest"
	SlotCitizenship            Slot = "citizenship"
	SlotVeteranStatus          Slot = "veteranStatus"
	SlotDisabilityStatus       Slot = "disabilityStatus"
	SlotDriversLicense         Slot = "driversLicense"
	SlotReliableTransportation Slot = "reliableTransportation"
	SlotMaritalStatus          Slot = "maritalStatus"
	SlotGender                 Slot = "gender"
	SlotEthnicity              Slot = "ethnicity"
	SlotDateOfBirth            Slot = "dateOfBirth"
	SlotOver18                 Slot = "over18"
)

var allSlots = []Slot{
	SlotFirstName, SlotLastName, SlotFullName, SlotEmail, SlotPhone,
	SlotAddress, SlotCity, SlotState, SlotZipCode, SlotCountry,
	SlotLinkedIn, SlotGitHub, SlotPortfolio, SlotWebsite,

	SlotCurrentTitle, SlotCurrentCompany, SlotYearsExperience,
	SlotDegree, SlotSchool, SlotMajor, SlotGraduationYear,
	SlotSkills, SlotResume, SlotCoverLetter,

	SlotAutomationAI, SlotTeamManagement, SlotBiggestChallenge, SlotWhyRole,
	SlotWhyCompany, SlotGreatestStrength, SlotCareerGoals,
	SlotLeadershipExperience, SlotAdditionalInfo,

	SlotAutomationExperience, SlotRemoteWork, SlotTeamwork,
	SlotConflictResolution, SlotCommunication, SlotProblemSolving,
	SlotReferralSource,

	SlotWillingToRelocate, SlotWorkAuthorization, SlotRequireSponsorship,
	SlotStartDate, SlotSalaryExpectation, SlotBackgroundCheck, SlotDrugTest,
	SlotCitizenship, SlotVeteranStatus, SlotDisabilityStatus,
	SlotDriversLicense, SlotReliableTransportation, SlotMaritalStatus,
	SlotGender, SlotEthnicity, SlotDateOfBirth, SlotOver18,
}

var slotSet = func() map[Slot]bool {
	m := make(map[Slot]bool, len(allSlots))
	for _, s := range allSlots {
		m[s] = true
	}
	return m
}()

// AllSlots returns a copy of the closed slot enumeration.
func AllSlots() []Slot {
	out := make([]Slot, len(allSlots))
	copy(out, allSlots)
	return out
}

// Known reports whether s belongs to the enumeration.
func Known(s Slot) bool { return slotSet[s] }
