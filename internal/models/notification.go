package models

// Notification is one outbound webhook message.
type Notification struct {
	Content        string
	AttachmentName string
	Attachment     []byte
}
