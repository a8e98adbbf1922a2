package dto

import (
	"math"
	"time"

	"schoolku_backend/internals/features/school/attendance/model"
)

type MarkAttendanceRequest struct {
	StudentID uint      `json:"student_id" validate:"required,gt=0"`
	ClassID   uint      `json:"class_id" validate:"required,gt=0"`
	Date      time.Time `json:"date" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=Present Absent Late Excused"`
	Remarks   string    `json:"remarks" validate:"omitempty,max=255"`
}

type BulkAttendanceEntry struct {
	StudentID uint   `json:"student_id" validate:"required,gt=0"`
	Status    string `json:"status" validate:"required,oneof=Present Absent Late Excused"`
	Remarks   string `json:"remarks" validate:"omitempty,max=255"`
}

type BulkMarkAttendanceRequest struct {
	ClassID uint                  `json:"class_id" validate:"required,gt=0"`
	Date    time.Time             `json:"date" validate:"required"`
	Entries []BulkAttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

type UpdateAttendanceRequest struct {
	Status  *string `json:"status" validate:"omitempty,oneof=Present Absent Late Excused"`
	Remarks *string `json:"remarks" validate:"omitempty,max=255"`
}

type AttendanceResponse struct {
	ID            uint      `json:"id"`
	StudentID     uint      `json:"student_id"`
	StudentNumber string    `json:"student_number,omitempty"`
	StudentName   string    `json:"student_name,omitempty"`
	ClassID       uint      `json:"class_id"`
	ClassName     string    `json:"class_name,omitempty"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Remarks       string    `json:"remarks,omitempty"`
	MarkedBy      *uint     `json:"marked_by,omitempty"`
}

func FromModel(m *model.AttendanceModel) AttendanceResponse {
	r := AttendanceResponse{
		ID:        m.ID,
		StudentID: m.StudentID,
		ClassID:   m.ClassID,
		Date:      m.Date,
		Status:    m.Status,
		Remarks:   m.Remarks,
		MarkedBy:  m.MarkedBy,
	}
	if m.Student != nil {
		r.StudentNumber = m.Student.StudentNumber
		r.StudentName = m.Student.FullName()
	}
	if m.Class != nil {
		r.ClassName = m.Class.Name
	}
	return r
}

func FromModels(rows []model.AttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// AttendanceSummary: Late dihitung hadir.
type AttendanceSummary struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Excused        int     `json:"excused"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Add menambahkan n kejadian status ke ringkasan.
func (s *AttendanceSummary) Add(status string, n int) {
	s.Total += n
	switch status {
	case model.StatusPresent:
		s.Present += n
	case model.StatusAbsent:
		s.Absent += n
	case model.StatusLate:
		s.Late += n
	case model.StatusExcused:
		s.Excused += n
	}
}

// Finish mengisi persentase kehadiran (0 bila belum ada data).
func (s *AttendanceSummary) Finish() {
	if s.Total == 0 {
		s.AttendanceRate = 0
		return
	}
	rate := float64(s.Present+s.Late) / float64(s.Total) * 100
	s.AttendanceRate = math.Round(rate*100) / 100
}
