package notify

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Payload - служебные поля уведомления: шаблон письма и данные для него
type Payload struct {
	Template string            `json:"template,omitempty"`
	Link     string            `json:"link,omitempty"`
	DriveID  string            `json:"driveId,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// JSON кодирует payload для колонки notifications.payload
func (p Payload) JSON() datatypes.JSON {
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func decodePayload(raw datatypes.JSON) Payload {
	var p Payload
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p)
	}
	return p
}
