package model

// Contact is the data structure for a person that we know.
// The Id is assigned by the store when the contact is created and never changes afterwards. The
// Phone is always in the canonical Philippine format "+63 XXX XXX XXXX".
type Contact struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
