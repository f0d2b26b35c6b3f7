package emergency

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edops/edops/internal/domain/bed"
	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/domain/directory"
	"github.com/edops/edops/internal/domain/pharmacy"
)

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// -- In-memory bed repository --

type memBedRepo struct {
	beds       map[uuid.UUID]*bed.Bed
	activities []*bed.Activity
}

func newMemBedRepo() *memBedRepo {
	return &memBedRepo{beds: make(map[uuid.UUID]*bed.Bed)}
}

func (m *memBedRepo) Create(_ context.Context, b *bed.Bed) error {
	b.ID = uuid.New()
	m.beds[b.ID] = b
	return nil
}

func (m *memBedRepo) GetByID(_ context.Context, id uuid.UUID) (*bed.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, bed.ErrNotFound
	}
	return b, nil
}

func (m *memBedRepo) List(_ context.Context, ward string, status bed.Status, limit, offset int) ([]*bed.Bed, int, error) {
	var out []*bed.Bed
	for _, b := range m.beds {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (m *memBedRepo) Occupy(_ context.Context, id, patientID uuid.UUID, admission time.Time, diagnosis *string) (*bed.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, bed.ErrNotFound
	}
	switch b.Status {
	case bed.StatusAvailable, bed.StatusReserved:
		b.Status = bed.StatusOccupied
		b.PatientID = &patientID
		b.AdmissionDate = &admission
		b.Diagnosis = diagnosis
		return b, nil
	case bed.StatusOccupied:
		if b.PatientID != nil && *b.PatientID == patientID {
			return b, nil
		}
		return nil, bed.ErrOccupied
	default:
		return nil, bed.ErrNotAvailable
	}
}

func (m *memBedRepo) Release(_ context.Context, id uuid.UUID, next bed.Status) (*bed.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, bed.ErrNotFound
	}
	b.Status = next
	b.PatientID = nil
	b.AdmissionDate = nil
	b.Diagnosis = nil
	return b, nil
}

func (m *memBedRepo) UpdateStatus(_ context.Context, id uuid.UUID, status bed.Status) (*bed.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, bed.ErrNotFound
	}
	b.Status = status
	return b, nil
}

func (m *memBedRepo) SetDiagnosis(_ context.Context, id uuid.UUID, diagnosis string) error {
	b, ok := m.beds[id]
	if !ok || b.Status != bed.StatusOccupied {
		return bed.ErrNotFound
	}
	b.Diagnosis = &diagnosis
	return nil
}

func (m *memBedRepo) AddActivity(_ context.Context, a *bed.Activity) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	m.activities = append(m.activities, a)
	return nil
}

func (m *memBedRepo) ActivityHistory(_ context.Context, bedID uuid.UUID, limit int) ([]*bed.Activity, error) {
	var out []*bed.Activity
	for i := len(m.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if m.activities[i].BedID == bedID {
			out = append(out, m.activities[i])
		}
	}
	return out, nil
}

func (m *memBedRepo) lastAction(bedID uuid.UUID) bed.Action {
	for i := len(m.activities) - 1; i >= 0; i-- {
		if m.activities[i].BedID == bedID {
			return m.activities[i].Action
		}
	}
	return ""
}

// -- In-memory case repository --

type memCaseRepo struct {
	cases map[uuid.UUID]*Case
}

func newMemCaseRepo() *memCaseRepo {
	return &memCaseRepo{cases: make(map[uuid.UUID]*Case)}
}

func (m *memCaseRepo) Create(_ context.Context, c *Case) error {
	c.ID = uuid.New()
	c.AdmissionDate = time.Now()
	c.CreatedAt = c.AdmissionDate
	c.UpdatedAt = c.AdmissionDate
	m.cases[c.ID] = c
	return nil
}

func (m *memCaseRepo) GetByID(_ context.Context, id uuid.UUID) (*Case, error) {
	c, ok := m.cases[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCaseRepo) List(_ context.Context, status Status, limit, offset int) ([]*Case, int, error) {
	var out []*Case
	for _, c := range m.cases {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memCaseRepo) Update(_ context.Context, c *Case) error {
	if _, ok := m.cases[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	m.cases[c.ID] = &cp
	return nil
}

func (m *memCaseRepo) ListCritical(_ context.Context, limit int) ([]*Case, error) {
	var out []*Case
	for _, c := range m.cases {
		if c.Active() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TriageLevel != out[j].TriageLevel {
			return out[i].TriageLevel < out[j].TriageLevel
		}
		return out[i].AdmissionDate.Before(out[j].AdmissionDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memCaseRepo) CaseExists(_ context.Context, id uuid.UUID) error {
	if _, ok := m.cases[id]; !ok {
		return clinical.ErrCaseNotFound
	}
	return nil
}

func (m *memCaseRepo) SetVitalsSnapshot(_ context.Context, caseID uuid.UUID, snapshot clinical.VitalSigns) error {
	c, ok := m.cases[caseID]
	if !ok {
		return clinical.ErrCaseNotFound
	}
	c.VitalSigns = &snapshot
	return nil
}

func (m *memCaseRepo) ResolveCaseParties(_ context.Context, caseID uuid.UUID) (pharmacy.CaseParties, error) {
	c, ok := m.cases[caseID]
	if !ok {
		return pharmacy.CaseParties{}, ErrNotFound
	}
	return pharmacy.CaseParties{PatientID: c.PatientID, DoctorID: c.DoctorID}, nil
}

// -- In-memory clinical log --

type memClinicalRepo struct {
	vitals     []*clinical.VitalSign
	procedures []*clinical.Procedure
}

func (m *memClinicalRepo) CreateVitalSign(_ context.Context, v *clinical.VitalSign) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.vitals = append(m.vitals, v)
	return nil
}

func (m *memClinicalRepo) ListVitalSigns(_ context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.VitalSign, int, error) {
	return m.vitals, len(m.vitals), nil
}

func (m *memClinicalRepo) CreateMedication(_ context.Context, md *clinical.MedicationAdministration) error {
	md.ID = uuid.New()
	return nil
}

func (m *memClinicalRepo) ListMedications(_ context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.MedicationAdministration, int, error) {
	return nil, 0, nil
}

func (m *memClinicalRepo) CreateProcedure(_ context.Context, p *clinical.Procedure) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.procedures = append(m.procedures, p)
	return nil
}

func (m *memClinicalRepo) ListProcedures(_ context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.Procedure, int, error) {
	return m.procedures, len(m.procedures), nil
}

func (m *memClinicalRepo) CreateAttachment(_ context.Context, a *clinical.Attachment) error {
	return nil
}

func (m *memClinicalRepo) GetAttachment(_ context.Context, id uuid.UUID) (*clinical.Attachment, error) {
	return nil, clinical.ErrAttachmentNotFound
}

func (m *memClinicalRepo) RenameAttachment(_ context.Context, id uuid.UUID, title string) (*clinical.Attachment, error) {
	return nil, clinical.ErrAttachmentNotFound
}

func (m *memClinicalRepo) DeleteAttachment(_ context.Context, id uuid.UUID) error {
	return clinical.ErrAttachmentNotFound
}

func (m *memClinicalRepo) ListAttachments(_ context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.Attachment, int, error) {
	return nil, 0, nil
}

// -- Directory fakes --

type memDirectory struct {
	patients map[uuid.UUID]*directory.Patient
	doctors  map[uuid.UUID]*directory.Practitioner
}

func newMemDirectory() *memDirectory {
	return &memDirectory{
		patients: make(map[uuid.UUID]*directory.Patient),
		doctors:  make(map[uuid.UUID]*directory.Practitioner),
	}
}

func (m *memDirectory) addPatient(first, last string) *directory.Patient {
	dob := time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC)
	p := &directory.Patient{ID: uuid.New(), FirstName: first, LastName: last, DateOfBirth: &dob}
	m.patients[p.ID] = p
	return p
}

func (m *memDirectory) addDoctor(name string) *directory.Practitioner {
	d := &directory.Practitioner{ID: uuid.New(), DisplayName: name}
	m.doctors[d.ID] = d
	return d
}

func (m *memDirectory) ResolvePatient(_ context.Context, id uuid.UUID) (*directory.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, directory.ErrPatientNotFound
	}
	return p, nil
}

func (m *memDirectory) ResolveDoctor(_ context.Context, id uuid.UUID) (*directory.Practitioner, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, directory.ErrPractitionerNotFound
	}
	return d, nil
}

// -- Fixture --

type fixture struct {
	svc      *Service
	beds     *bed.Service
	bedRepo  *memBedRepo
	caseRepo *memCaseRepo
	clinRepo *memClinicalRepo
	dir      *memDirectory
}

func newFixture() *fixture {
	bedRepo := newMemBedRepo()
	caseRepo := newMemCaseRepo()
	clinRepo := &memClinicalRepo{}
	dir := newMemDirectory()

	beds := bed.NewService(bedRepo, passthroughTx)
	clin := clinical.NewService(clinRepo, caseRepo, nil, passthroughTx, zerolog.Nop())
	svc := NewService(caseRepo, beds, clin, dir, dir, passthroughTx, zerolog.Nop())
	return &fixture{svc: svc, beds: beds, bedRepo: bedRepo, caseRepo: caseRepo, clinRepo: clinRepo, dir: dir}
}

func (f *fixture) newBed(t *testing.T, number, ward string) *bed.Bed {
	t.Helper()
	b, err := f.beds.CreateBed(context.Background(), number, ward, "standard")
	if err != nil {
		t.Fatalf("create bed: %v", err)
	}
	return b
}

// -- Tests --

func TestCreateCase_WithBedAndSnapshots(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.newBed(t, "B1", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")
	d := f.dir.addDoctor("Dr. Silva")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID:      &p.ID,
		TriageLevel:    1,
		ChiefComplaint: "chest pain",
		BedID:          &b.ID,
		DoctorID:       &d.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusAdmitted {
		t.Errorf("expected ADMITTED, got %s", c.Status)
	}
	if c.PatientName == nil || *c.PatientName != "Maria Lopez" {
		t.Errorf("patient name not snapshotted: %v", c.PatientName)
	}
	if c.PatientAge == nil {
		t.Error("patient age not snapshotted")
	}
	if c.DoctorName == nil || *c.DoctorName != "Dr. Silva" {
		t.Errorf("doctor name not snapshotted: %v", c.DoctorName)
	}
	if c.BedNumber == nil || *c.BedNumber != "B1" {
		t.Errorf("bed number not denormalized: %v", c.BedNumber)
	}

	got := f.bedRepo.beds[b.ID]
	if got.Status != bed.StatusOccupied || got.PatientID == nil || *got.PatientID != p.ID {
		t.Errorf("bed not occupied by patient: %+v", got)
	}
}

func TestCreateCase_BedAlreadyTaken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.newBed(t, "B1", "Emergencia")
	p1 := f.dir.addPatient("Maria", "Lopez")
	p2 := f.dir.addPatient("Juan", "Perez")

	if _, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p1.ID, TriageLevel: 1, ChiefComplaint: "chest pain", BedID: &b.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p2.ID, TriageLevel: 2, ChiefComplaint: "fracture", BedID: &b.ID,
	})
	if !errors.Is(err, bed.ErrOccupied) {
		t.Errorf("expected bed.ErrOccupied, got %v", err)
	}
}

func TestCreateCase_InitialVitalsThroughLog(t *testing.T) {
	f := newFixture()
	p := f.dir.addPatient("Maria", "Lopez")
	hr := 120

	c, err := f.svc.CreateCase(context.Background(), CreateCaseInput{
		PatientID:      &p.ID,
		TriageLevel:    2,
		ChiefComplaint: "tachycardia",
		VitalSigns:     &clinical.VitalSigns{HeartRate: &hr},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.clinRepo.vitals) != 1 {
		t.Fatalf("expected the first reading in the history, got %d entries", len(f.clinRepo.vitals))
	}
	stored := f.caseRepo.cases[c.ID]
	if stored.VitalSigns == nil || stored.VitalSigns.HeartRate == nil || *stored.VitalSigns.HeartRate != 120 {
		t.Errorf("snapshot not cached on case: %+v", stored.VitalSigns)
	}
}

func TestCreateCase_BedWithoutPatient(t *testing.T) {
	f := newFixture()
	b := f.newBed(t, "B1", "Emergencia")

	_, err := f.svc.CreateCase(context.Background(), CreateCaseInput{
		TriageLevel: 3, ChiefComplaint: "unidentified male", BedID: &b.ID,
	})
	if err == nil {
		t.Error("expected error: occupancy requires a patient reference")
	}
}

func TestCreateCase_InvalidTriageLevel(t *testing.T) {
	f := newFixture()
	for _, level := range []int{0, 6, -1} {
		if _, err := f.svc.CreateCase(context.Background(), CreateCaseInput{
			TriageLevel: level, ChiefComplaint: "x",
		}); err == nil {
			t.Errorf("expected error for triage level %d", level)
		}
	}
}

func TestUpdateCase_BedSwapKeepsOldBedOnConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.newBed(t, "B1", "Emergencia")
	b2 := f.newBed(t, "B2", "Emergencia")
	p1 := f.dir.addPatient("Maria", "Lopez")
	p2 := f.dir.addPatient("Juan", "Perez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p1.ID, TriageLevel: 2, ChiefComplaint: "fracture", BedID: &b1.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	// B2 taken by someone else.
	if _, err := f.beds.AssignPatient(ctx, b2.ID, p2.ID, nil); err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.UpdateCase(ctx, c.ID, UpdateCaseInput{BedID: &b2.ID})
	if !errors.Is(err, bed.ErrOccupied) {
		t.Fatalf("expected bed.ErrOccupied, got %v", err)
	}

	// The old bed must still be held and the case unchanged.
	if f.bedRepo.beds[b1.ID].Status != bed.StatusOccupied {
		t.Error("old bed must not have been released")
	}
	stored := f.caseRepo.cases[c.ID]
	if stored.BedID == nil || *stored.BedID != b1.ID {
		t.Errorf("case must keep its bed, got %v", stored.BedID)
	}
}

func TestUpdateCase_BedSwap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.newBed(t, "B1", "Emergencia")
	b2 := f.newBed(t, "B2", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 2, ChiefComplaint: "fracture", BedID: &b1.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.UpdateCase(ctx, c.ID, UpdateCaseInput{BedID: &b2.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.BedNumber == nil || *updated.BedNumber != "B2" {
		t.Errorf("bed number not refreshed: %v", updated.BedNumber)
	}
	if f.bedRepo.beds[b1.ID].Status != bed.StatusAvailable {
		t.Error("old bed should be released")
	}
	if f.bedRepo.beds[b2.ID].Status != bed.StatusOccupied {
		t.Error("new bed should be occupied")
	}
}

func TestUpdateCase_DiagnosisPropagatesToBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.newBed(t, "B1", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 2, ChiefComplaint: "abdominal pain", BedID: &b.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	diagnosis := "appendicitis"
	if _, err := f.svc.UpdateCase(ctx, c.ID, UpdateCaseInput{Diagnosis: &diagnosis}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.bedRepo.beds[b.ID]
	if got.Diagnosis == nil || *got.Diagnosis != "appendicitis" {
		t.Errorf("diagnosis not propagated to bed: %v", got.Diagnosis)
	}
}

func TestUpdateCase_ChiefComplaintPropagatesToBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.newBed(t, "B1", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 2, ChiefComplaint: "abdominal pain", BedID: &b.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	complaint := "abdominal pain, fever"
	if _, err := f.svc.UpdateCase(ctx, c.ID, UpdateCaseInput{ChiefComplaint: &complaint}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.bedRepo.beds[b.ID]
	if got.Diagnosis == nil || *got.Diagnosis != complaint {
		t.Errorf("chief complaint not propagated to bed: %v", got.Diagnosis)
	}
}

func TestTransferPatient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.newBed(t, "B1", "Emergencia")
	b2 := f.newBed(t, "B2", "UCI")
	p := f.dir.addPatient("Maria", "Lopez")
	d := f.dir.addDoctor("Dr. Silva")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 1, ChiefComplaint: "sepsis", BedID: &b1.ID, DoctorID: &d.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	transferred, err := f.svc.TransferPatient(ctx, c.ID, "UCI", &b2.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transferred.Status != StatusObservation {
		t.Errorf("expected OBSERVATION, got %s", transferred.Status)
	}
	if transferred.BedNumber == nil || *transferred.BedNumber != "B2" {
		t.Errorf("expected bed number B2, got %v", transferred.BedNumber)
	}
	if f.bedRepo.beds[b1.ID].Status != bed.StatusAvailable {
		t.Error("source bed should be AVAILABLE")
	}
	if f.bedRepo.beds[b2.ID].Status != bed.StatusOccupied {
		t.Error("target bed should be OCCUPIED")
	}
	if f.bedRepo.lastAction(b1.ID) != bed.ActionTransferOut {
		t.Error("source bed should log TRASLADO")
	}
	if f.bedRepo.lastAction(b2.ID) != bed.ActionTransferIn {
		t.Error("target bed should log INGRESO")
	}
	if len(f.clinRepo.procedures) != 1 || f.clinRepo.procedures[0].Name != "TRANSFER TO UCI" {
		t.Errorf("expected continuity record, got %+v", f.clinRepo.procedures)
	}
}

func TestTransferPatient_ReplaySameTargetKeepsBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.newBed(t, "B1", "Emergencia")
	b2 := f.newBed(t, "B2", "UCI")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 1, ChiefComplaint: "sepsis", BedID: &b1.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.TransferPatient(ctx, c.ID, "UCI", &b2.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A client that timed out retries the same transfer.
	replayed, err := f.svc.TransferPatient(ctx, c.ID, "UCI", &b2.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replayed.BedID == nil || *replayed.BedID != b2.ID {
		t.Errorf("case should still claim the target bed, got %v", replayed.BedID)
	}
	got := f.bedRepo.beds[b2.ID]
	if got.Status != bed.StatusOccupied || got.PatientID == nil || *got.PatientID != p.ID {
		t.Errorf("target bed must stay occupied by the patient: %+v", got)
	}
	if f.bedRepo.lastAction(b2.ID) != bed.ActionTransferIn {
		t.Error("replay must not log another bed movement")
	}
}

func TestTransferPatient_TargetTakenKeepsSourceBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.newBed(t, "B1", "Emergencia")
	b2 := f.newBed(t, "B2", "UCI")
	p1 := f.dir.addPatient("Maria", "Lopez")
	p2 := f.dir.addPatient("Juan", "Perez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p1.ID, TriageLevel: 1, ChiefComplaint: "sepsis", BedID: &b1.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.beds.AssignPatient(ctx, b2.ID, p2.ID, nil); err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.TransferPatient(ctx, c.ID, "UCI", &b2.ID, nil)
	if !errors.Is(err, bed.ErrOccupied) {
		t.Fatalf("expected bed.ErrOccupied, got %v", err)
	}
	if f.bedRepo.beds[b1.ID].Status != bed.StatusOccupied {
		t.Error("source bed must still be held after a failed transfer")
	}
}

func TestTransferPatient_NoContinuityRecordWithoutDoctor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.newBed(t, "B1", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 2, ChiefComplaint: "fracture", BedID: &b1.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	transferred, err := f.svc.TransferPatient(ctx, c.ID, "Traumatologia", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transferred.BedID != nil {
		t.Error("expected no bed after transfer without target")
	}
	if len(f.clinRepo.procedures) != 0 {
		t.Error("continuity record requires both patient and doctor")
	}
}

func TestDischargeCase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.newBed(t, "B1", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 3, ChiefComplaint: "laceration", BedID: &b.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	discharged, err := f.svc.DischargeCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discharged.Status != StatusDischarged || discharged.DischargedAt == nil {
		t.Errorf("unexpected case after discharge: %+v", discharged)
	}
	if discharged.BedID != nil {
		t.Error("expected bed reference cleared")
	}
	got := f.bedRepo.beds[b.ID]
	if got.Status != bed.StatusAvailable || got.PatientID != nil {
		t.Errorf("bed not freed: %+v", got)
	}
	if f.bedRepo.lastAction(b.ID) != bed.ActionDischarge {
		t.Error("expected ALTA activity")
	}
}

func TestDischargeCase_Idempotence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.newBed(t, "B1", "Emergencia")
	p := f.dir.addPatient("Maria", "Lopez")

	c, err := f.svc.CreateCase(ctx, CreateCaseInput{
		PatientID: &p.ID, TriageLevel: 3, ChiefComplaint: "laceration", BedID: &b.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.DischargeCase(ctx, c.ID); err != nil {
		t.Fatal(err)
	}

	// Occupy the bed again; a double discharge must not free it.
	p2 := f.dir.addPatient("Juan", "Perez")
	if _, err := f.beds.AssignPatient(ctx, b.ID, p2.ID, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.DischargeCase(ctx, c.ID); !errors.Is(err, ErrAlreadyDischarged) {
		t.Errorf("expected ErrAlreadyDischarged, got %v", err)
	}
	if f.bedRepo.beds[b.ID].Status != bed.StatusOccupied {
		t.Error("repeat discharge must not release the bed")
	}
}

func TestCriticalCases_Ordering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	mk := func(level int) *Case {
		c, err := f.svc.CreateCase(ctx, CreateCaseInput{TriageLevel: level, ChiefComplaint: "x"})
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	c3 := mk(3)
	c1 := mk(1)
	c5 := mk(5)
	discharged := mk(2)
	if _, err := f.svc.DischargeCase(ctx, discharged.ID); err != nil {
		t.Fatal(err)
	}

	items, err := f.svc.CriticalCases(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 active cases, got %d", len(items))
	}
	if items[0].ID != c1.ID || items[1].ID != c3.ID || items[2].ID != c5.ID {
		t.Errorf("wrong priority order: %v %v %v", items[0].TriageLevel, items[1].TriageLevel, items[2].TriageLevel)
	}
}
