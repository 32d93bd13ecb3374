package models

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"

	SubscribedMessage  = "Thanks for subscribing!"
	RelayFailedMessage = "Something went wrong."
)

// Notice is a transient user-visible message, the server side of a toast.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

type SubscribeResponse struct {
	Status  string   `json:"status"`
	Field   string   `json:"field,omitempty"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Notices []Notice `json:"notices"`
}
