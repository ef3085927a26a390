package entity

import "time"

// ReferenceSnapshot listas de empleados e ítems con la hora de descarga.
type ReferenceSnapshot struct {
	Employees []Employee `json:"employees"`
	Items     []Item     `json:"items"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Expired indica si la instantánea superó el TTL respecto a now.
func (s ReferenceSnapshot) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.FetchedAt) > ttl
}
