package dto

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"schoolku_backend/internals/features/notifications/notifications/model"
)

type SendNotificationRequest struct {
	UserID  string         `json:"user_id" validate:"required,uuid"`
	Title   string         `json:"title" validate:"required,max=200"`
	Message string         `json:"message" validate:"required"`
	Type    string         `json:"type" validate:"omitempty,oneof=Info Warning Success Announcement Grade Assignment Attendance"`
	Link    *string        `json:"link" validate:"omitempty,max=500"`
	Data    map[string]any `json:"data"`
}

// BroadcastRequest mengirim notifikasi yang sama ke semua user dengan role tsb.
type BroadcastRequest struct {
	Role    string         `json:"role" validate:"required,oneof=Admin Teacher Student"`
	Title   string         `json:"title" validate:"required,max=200"`
	Message string         `json:"message" validate:"required"`
	Type    string         `json:"type" validate:"omitempty,oneof=Info Warning Success Announcement Grade Assignment Attendance"`
	Link    *string        `json:"link" validate:"omitempty,max=500"`
	Data    map[string]any `json:"data"`
}

func (r SendNotificationRequest) ToModel() (*model.NotificationModel, error) {
	return build(r.UserID, r.Title, r.Message, r.Type, r.Link, r.Data)
}

func (r BroadcastRequest) ToModel(userID string) (*model.NotificationModel, error) {
	return build(userID, r.Title, r.Message, r.Type, r.Link, r.Data)
}

func build(userID, title, message, typ string, link *string, data map[string]any) (*model.NotificationModel, error) {
	if typ == "" {
		typ = model.TypeInfo
	}
	m := &model.NotificationModel{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Link:    link,
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		m.Data = datatypes.JSON(raw)
	}
	return m, nil
}

type NotificationResponse struct {
	ID        uint           `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Link      *string        `json:"link,omitempty"`
	Data      datatypes.JSON `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func FromModel(m *model.NotificationModel) NotificationResponse {
	return NotificationResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Message,
		Type:      m.Type,
		Link:      m.Link,
		Data:      m.Data,
		IsRead:    m.IsRead,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedDate,
	}
}

func FromModels(rows []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
