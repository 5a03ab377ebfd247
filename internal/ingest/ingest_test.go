package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

const backlogCSV = `Treatment Function,Wait (Weeks),Status
T&O,3,Admitted
trauma and orthopaedics,3,admitted
T&O,20,Non-Admitted
,5,Admitted
Urology,abc,Admitted
Urology,-2,
Urology,7,
`

func TestLoad_BacklogAggregatesPatients(t *testing.T) {
	data, rep, err := Load(workspace.DatasetBacklog, strings.NewReader(backlogCSV))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []theatre.BacklogRecord{
		{Specialty: "110 - Trauma and Orthopaedics", WeeksWait: 3, Pathway: theatre.PathwayAdmitted, PatientCount: 2},
		{Specialty: "110 - Trauma and Orthopaedics", WeeksWait: 20, Pathway: theatre.PathwayNonAdmitted, PatientCount: 1},
		{Specialty: "101 - Urology", WeeksWait: 7, Pathway: theatre.PathwayAdmitted, PatientCount: 1},
	}
	if len(data.Backlog) != len(want) {
		t.Fatalf("Expected %d records, got %d: %+v", len(want), len(data.Backlog), data.Backlog)
	}
	for i := range want {
		if data.Backlog[i] != want[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, want[i], data.Backlog[i])
		}
	}

	if rep.TotalRows != 7 || rep.ValidRows != 4 || rep.SkippedCount() != 3 {
		t.Errorf("Expected 7 rows / 4 valid / 3 skipped, got %d / %d / %d", rep.TotalRows, rep.ValidRows, rep.SkippedCount())
	}
	if rep.Skipped[0].Line != 5 || rep.Skipped[0].Reason != "Missing/Invalid Specialty" {
		t.Errorf("Unexpected first skipped row: %+v", rep.Skipped[0])
	}
}

func TestLoad_BacklogWithCountColumn(t *testing.T) {
	in := "Specialty,Weeks Wait,Pathway Type,Patient Count\nUrology,4,Admitted,12\nUrology,4,Admitted,3\nUrology,5,Admitted,0\n"
	data, rep, err := Load(workspace.DatasetBacklog, strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Backlog) != 1 || data.Backlog[0].PatientCount != 15 {
		t.Errorf("Expected one cohort of 15, got %+v", data.Backlog)
	}
	if rep.SkippedCount() != 1 {
		t.Errorf("Expected the zero-count row to be skipped, got %d", rep.SkippedCount())
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	_, _, err := Load(workspace.DatasetBacklog, strings.NewReader("Specialty,Weeks\nUrology,3\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("Expected ErrMissingColumns, got %v", err)
	}
}

func TestLoad_NoValidRecords(t *testing.T) {
	data, rep, err := Load(workspace.DatasetBacklog, strings.NewReader("Specialty,Weeks Wait,Status\n,1,Admitted\n"))
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("Expected ErrNoRecords, got %v", err)
	}
	if len(data.Backlog) != 0 || len(rep.Skipped) != 1 {
		t.Errorf("Expected no data and one skipped row, got %d / %d", len(data.Backlog), len(rep.Skipped))
	}
}

func TestLoad_Activity(t *testing.T) {
	in := `Specialty,Consultant,Procedure Date,List ID,Cases Done
Urology,"DAVIS, DR EMILY",06/01/2025,L1,4
Urology,"Davis, Dr Emily",2025-01-13,L2,3
Urology,"Davis, Dr Emily",31/02/2025,L3,2
Urology,"Davis, Dr Emily",07/01/2025,L4,minus
`
	data, rep, err := Load(workspace.DatasetActivity, strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Activity) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(data.Activity))
	}
	first := data.Activity[0]
	if first.Surgeon != "Davis, Dr Emily" || first.Date != "2025-01-06" || first.WeekIndex != 1 || first.Completed != 4 {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if data.Activity[1].WeekIndex != 2 {
		t.Errorf("Expected week index 2, got %d", data.Activity[1].WeekIndex)
	}
	if len(rep.Skipped) != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", len(rep.Skipped))
	}
}

func TestLoad_ActivityDefaultsCompletedToOne(t *testing.T) {
	in := "Specialty,Surgeon,Date,Session ID\nUrology,Davis,06/01/2025,\n"
	data, _, err := Load(workspace.DatasetActivity, strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data.Activity[0].Completed != 1 || data.Activity[0].SessionID != "N/A" {
		t.Errorf("Expected 1 completed case in session N/A, got %+v", data.Activity[0])
	}
}

func TestLoad_ContractSpreadsMonthsOverMondays(t *testing.T) {
	in := "Specialty,Apr-25,May-25,Notes\nUrology,400,,x\nUrology,abc,xyz,\n,10,10,\n"
	data, rep, err := Load(workspace.DatasetContract, strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Contract) != 4 {
		t.Fatalf("Expected 4 weekly entries, got %d", len(data.Contract))
	}
	for i, e := range data.Contract {
		if e.WeeklyAmount != 100 || e.WeekIndex != 14+i {
			t.Errorf("Entry %d: expected 100 in week %d, got %+v", i, 14+i, e)
		}
	}
	if data.Contract[0].Week != "2025-04-07" {
		t.Errorf("Expected first week 2025-04-07, got %s", data.Contract[0].Week)
	}
	if rep.ValidRows != 1 || len(rep.Skipped) != 2 {
		t.Errorf("Expected 1 valid and 2 skipped rows, got %d / %d", rep.ValidRows, len(rep.Skipped))
	}
}

func TestLoad_ContractRequiresMonthColumns(t *testing.T) {
	_, _, err := Load(workspace.DatasetContract, strings.NewReader("Specialty,April\nUrology,4\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("Expected ErrMissingColumns, got %v", err)
	}
}

func TestLoad_DemandProfile(t *testing.T) {
	in := "Specialty,Week,DTA\nUrology,W1,10\nUrology,w1,5\nUrology,W12,8\nUrology,W99x,3\nUrology,W2,0\n"
	data, rep, err := Load(workspace.DatasetDemand, strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []theatre.DemandEntry{
		{Specialty: "101 - Urology", WeekIndex: 0, Demand: 15},
		{Specialty: "101 - Urology", WeekIndex: 11, Demand: 8},
	}
	if len(data.Demand) != 2 || data.Demand[0] != want[0] || data.Demand[1] != want[1] {
		t.Errorf("Expected %+v, got %+v", want, data.Demand)
	}
	if rep.SkippedCount() != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", rep.SkippedCount())
	}
}

func TestLoad_DemandProfileByDate(t *testing.T) {
	data, _, err := Load(workspace.DatasetDemand, strings.NewReader("Specialty,Date,Demand\nUrology,13/01/2025,4\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data.Demand[0].WeekIndex != 2 {
		t.Errorf("Expected week index 2, got %d", data.Demand[0].WeekIndex)
	}
}

func TestLoad_Timetable(t *testing.T) {
	in := "Specialty,Surgeon,Site,Sessions Odd,Sessions Even\nT&O,\"SMITH, MR JOHN\",mt,3,2\nUrology,\"Davis, Dr Emily\",,2,x\n"
	data, rep, err := Load(workspace.DatasetTimetable, strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data.Timetable) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(data.Timetable))
	}
	row := data.Timetable[0]
	if row.ID == "" || row.Surgeon != "Smith, Mr John" || row.Site != "MT" || row.SessionsPerWeek() != 2.5 {
		t.Errorf("Unexpected row: %+v", row)
	}
	if len(rep.Skipped) != 1 {
		t.Errorf("Expected 1 skipped row, got %d", len(rep.Skipped))
	}
}

func TestReport_WriteSkippedCSV(t *testing.T) {
	_, rep, err := Load(workspace.DatasetBacklog, strings.NewReader(backlogCSV))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rep.WriteSkippedCSV(&buf); err != nil {
		t.Fatalf("WriteSkippedCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "ValidationError,Treatment Function,Wait (Weeks),Status" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[1] != "Missing/Invalid Specialty,,5,Admitted" {
		t.Errorf("Unexpected first row: %s", lines[1])
	}

	if err := (Report{Dataset: workspace.DatasetBacklog}).WriteSkippedCSV(&buf); err == nil {
		t.Errorf("Expected an error for an empty log")
	}
}

func TestLoad_UnknownDataset(t *testing.T) {
	_, _, err := Load("patients", strings.NewReader("a\n1\n"))
	if !errors.Is(err, workspace.ErrUnknownDataset) {
		t.Errorf("Expected ErrUnknownDataset, got %v", err)
	}
}
