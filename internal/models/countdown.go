package models

import "time"

// CountdownState is the remaining time until launch. Hours, minutes and
// seconds are taken modulo their parent unit; days are unbounded.
type CountdownState struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

func (s CountdownState) IsZero() bool {
	return s == CountdownState{}
}

type CountdownResponse struct {
	Target   time.Time `json:"target"`
	Launched bool      `json:"launched"`
	CountdownState
}
