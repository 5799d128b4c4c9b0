package models

import (
	"sort"
	"strings"
	"time"
)

// StudentRecord is one student's entry in the general register. GRN is the natural key.
type StudentRecord struct {
	GRN          string `json:"grn" db:"grn" validate:"required" example:"4521"`
	PENNo        string `json:"penNo" db:"pen_no"`
	AadharNo     string `json:"aadharNo" db:"aadhar_no"`
	Name         string `json:"name" db:"name" validate:"required" example:"Asha"`
	Surname      string `json:"surname" db:"surname" example:"Patil"`
	FathersName  string `json:"fathersName" db:"fathers_name" example:"Ramesh"`
	MothersName  string `json:"mothersName" db:"mothers_name" example:"Sunita"`
	Religion     string `json:"religion" db:"religion"`
	Caste        string `json:"caste" db:"caste"`
	SubCaste     string `json:"subCaste" db:"sub_caste"`
	PlaceOfBirth string `json:"placeOfBirth" db:"place_of_birth"`
	Taluka       string `json:"taluka" db:"taluka"`
	District     string `json:"district" db:"district"`
	State        string `json:"state" db:"state"`
	Nationality  string `json:"nationality" db:"nationality"`
	MotherTongue string `json:"motherTongue" db:"mother_tongue"`

	DateOfBirth        string `json:"dateOfBirth" db:"date_of_birth" example:"2010-06-05"`
	LastAttendedSchool string `json:"lastAttendedSchool" db:"last_attended_school"`
	LastSchoolStandard string `json:"lastSchoolStandard" db:"last_school_standard"`
	DateOfAdmission    string `json:"dateOfAdmission" db:"date_of_admission"`
	AdmissionStandard  string `json:"admissionStandard" db:"admission_standard"`
	CurrentStandard    string `json:"currentStandard" db:"current_standard" example:"IX"`
	Progress           string `json:"progress" db:"progress"`
	Conduct            string `json:"conduct" db:"conduct"`

	DateOfLeaving                  string `json:"dateOfLeaving" db:"date_of_leaving"`
	ReasonOfLeaving                string `json:"reasonOfLeaving" db:"reason_of_leaving"`
	Remarks                        string `json:"remarks" db:"remarks"`
	LeaveCertificateGenerationDate string `json:"leaveCertificateGenerationDate" db:"leave_certificate_generation_date"`

	AcademicYear        string `json:"academicYear" db:"academic_year" example:"2024-2025"`
	ReasonOfBonafide    string `json:"reasonOfBonafide" db:"reason_of_bonafide"`
	RequestOfBonafideBy string `json:"requestOfBonafideBy" db:"request_of_bonafide_by"`
	DateOfBonafide      string `json:"dateOfBonafide" db:"date_of_bonafide"`
	BonafideStandard    string `json:"bonafideStandard" db:"bonafide_standard"`

	LeaveGeneratedCount    int `json:"leaveGeneratedCount" db:"leave_generated_count"`
	BonafideGeneratedCount int `json:"bonafideGeneratedCount" db:"bonafide_generated_count"`

	Frozen      bool      `json:"frozen" db:"frozen"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// FieldSpec describes one editable text field of StudentRecord.
type FieldSpec struct {
	// Name is the canonical camelCase name shared by imports, overrides and patches.
	Name string
	// Column is the database column.
	Column string
	// Label is the human readable header, also the default import alias.
	Label string

	get func(*StudentRecord) *string
}

// Fields lists the text fields in register order.
var Fields = []FieldSpec{
	{Name: "grn", Column: "grn", Label: "GRN", get: func(r *StudentRecord) *string { return &r.GRN }},
	{Name: "penNo", Column: "pen_no", Label: "PEN No", get: func(r *StudentRecord) *string { return &r.PENNo }},
	{Name: "aadharNo", Column: "aadhar_no", Label: "Aadhar No", get: func(r *StudentRecord) *string { return &r.AadharNo }},
	{Name: "name", Column: "name", Label: "Name", get: func(r *StudentRecord) *string { return &r.Name }},
	{Name: "surname", Column: "surname", Label: "Surname", get: func(r *StudentRecord) *string { return &r.Surname }},
	{Name: "fathersName", Column: "fathers_name", Label: "Father's Name", get: func(r *StudentRecord) *string { return &r.FathersName }},
	{Name: "mothersName", Column: "mothers_name", Label: "Mother's Name", get: func(r *StudentRecord) *string { return &r.MothersName }},
	{Name: "religion", Column: "religion", Label: "Religion", get: func(r *StudentRecord) *string { return &r.Religion }},
	{Name: "caste", Column: "caste", Label: "Caste", get: func(r *StudentRecord) *string { return &r.Caste }},
	{Name: "subCaste", Column: "sub_caste", Label: "Sub Caste", get: func(r *StudentRecord) *string { return &r.SubCaste }},
	{Name: "placeOfBirth", Column: "place_of_birth", Label: "Place of Birth", get: func(r *StudentRecord) *string { return &r.PlaceOfBirth }},
	{Name: "taluka", Column: "taluka", Label: "Taluka", get: func(r *StudentRecord) *string { return &r.Taluka }},
	{Name: "district", Column: "district", Label: "District", get: func(r *StudentRecord) *string { return &r.District }},
	{Name: "state", Column: "state", Label: "State", get: func(r *StudentRecord) *string { return &r.State }},
	{Name: "nationality", Column: "nationality", Label: "Nationality", get: func(r *StudentRecord) *string { return &r.Nationality }},
	{Name: "motherTongue", Column: "mother_tongue", Label: "Mother Tongue", get: func(r *StudentRecord) *string { return &r.MotherTongue }},
	{Name: "dateOfBirth", Column: "date_of_birth", Label: "Date of Birth", get: func(r *StudentRecord) *string { return &r.DateOfBirth }},
	{Name: "lastAttendedSchool", Column: "last_attended_school", Label: "Last Attended School", get: func(r *StudentRecord) *string { return &r.LastAttendedSchool }},
	{Name: "lastSchoolStandard", Column: "last_school_standard", Label: "Last School Standard", get: func(r *StudentRecord) *string { return &r.LastSchoolStandard }},
	{Name: "dateOfAdmission", Column: "date_of_admission", Label: "Date of Admission", get: func(r *StudentRecord) *string { return &r.DateOfAdmission }},
	{Name: "admissionStandard", Column: "admission_standard", Label: "Admission Standard", get: func(r *StudentRecord) *string { return &r.AdmissionStandard }},
	{Name: "currentStandard", Column: "current_standard", Label: "Current Standard", get: func(r *StudentRecord) *string { return &r.CurrentStandard }},
	{Name: "progress", Column: "progress", Label: "Progress", get: func(r *StudentRecord) *string { return &r.Progress }},
	{Name: "conduct", Column: "conduct", Label: "Conduct", get: func(r *StudentRecord) *string { return &r.Conduct }},
	{Name: "dateOfLeaving", Column: "date_of_leaving", Label: "Date of Leaving", get: func(r *StudentRecord) *string { return &r.DateOfLeaving }},
	{Name: "reasonOfLeaving", Column: "reason_of_leaving", Label: "Reason of Leaving", get: func(r *StudentRecord) *string { return &r.ReasonOfLeaving }},
	{Name: "remarks", Column: "remarks", Label: "Remarks", get: func(r *StudentRecord) *string { return &r.Remarks }},
	{Name: "leaveCertificateGenerationDate", Column: "leave_certificate_generation_date", Label: "Leave Certificate Generation Date", get: func(r *StudentRecord) *string { return &r.LeaveCertificateGenerationDate }},
	{Name: "academicYear", Column: "academic_year", Label: "Academic Year", get: func(r *StudentRecord) *string { return &r.AcademicYear }},
	{Name: "reasonOfBonafide", Column: "reason_of_bonafide", Label: "Reason of Bonafide", get: func(r *StudentRecord) *string { return &r.ReasonOfBonafide }},
	{Name: "requestOfBonafideBy", Column: "request_of_bonafide_by", Label: "Request of Bonafide By", get: func(r *StudentRecord) *string { return &r.RequestOfBonafideBy }},
	{Name: "dateOfBonafide", Column: "date_of_bonafide", Label: "Date of Bonafide", get: func(r *StudentRecord) *string { return &r.DateOfBonafide }},
	{Name: "bonafideStandard", Column: "bonafide_standard", Label: "Bonafide Standard", get: func(r *StudentRecord) *string { return &r.BonafideStandard }},
}

var fieldsByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the FieldSpec for a canonical field name.
func LookupField(name string) (FieldSpec, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// Get reads the field from r.
func (f FieldSpec) Get(r *StudentRecord) string { return *f.get(r) }

// Set writes the field on r.
func (f FieldSpec) Set(r *StudentRecord, value string) { *f.get(r) = value }

// Ptr returns the address of the field inside r, for row scanning.
func (f FieldSpec) Ptr(r *StudentRecord) *string { return f.get(r) }

// FieldMap returns every text field keyed by canonical name.
func (r *StudentRecord) FieldMap() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f.Get(r)
	}
	return m
}

// Blank reports whether every text field is empty or whitespace.
func (r *StudentRecord) Blank() bool {
	for _, f := range Fields {
		if strings.TrimSpace(f.Get(r)) != "" {
			return false
		}
	}
	return true
}

// Merge returns a copy of r with the known fields of overrides applied. Unknown names and
// the GRN are ignored.
func (r StudentRecord) Merge(overrides map[string]string) StudentRecord {
	for name, value := range overrides {
		if f, ok := fieldsByName[name]; ok && f.Name != "grn" {
			f.Set(&r, value)
		}
	}
	return r
}

// Diff returns the fields whose value in other differs from r, keyed by canonical name.
// The GRN is never part of a diff.
func (r *StudentRecord) Diff(other *StudentRecord) map[string]string {
	changed := map[string]string{}
	for _, f := range Fields {
		if f.Name == "grn" {
			continue
		}
		if v := f.Get(other); v != f.Get(r) {
			changed[f.Name] = v
		}
	}
	return changed
}

// FullName joins name and surname.
func (r *StudentRecord) FullName() string {
	return strings.TrimSpace(r.Name + " " + r.Surname)
}

// StudentPatch is a partial update of a StudentRecord.
type StudentPatch struct {
	Fields      map[string]string
	LastUpdated *time.Time
}

// Columns resolves the patch fields to database columns, sorted for stable SQL.
// Unknown names and the GRN are dropped.
func (p StudentPatch) Columns() []FieldSpec {
	specs := make([]FieldSpec, 0, len(p.Fields))
	for name := range p.Fields {
		if f, ok := fieldsByName[name]; ok && f.Name != "grn" {
			specs = append(specs, f)
		}
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Column < specs[j].Column })
	return specs
}

// Apply writes the patch onto r.
func (p StudentPatch) Apply(r *StudentRecord) {
	for _, f := range p.Columns() {
		f.Set(r, p.Fields[f.Name])
	}
	if p.LastUpdated != nil {
		r.LastUpdated = *p.LastUpdated
	}
}

// ReplacePatch builds a patch overwriting every text field of the stored record with rec's.
func ReplacePatch(rec *StudentRecord, at time.Time) StudentPatch {
	fields := rec.FieldMap()
	delete(fields, "grn")
	return StudentPatch{Fields: fields, LastUpdated: &at}
}
