package model

// Contact is the JSON representation of a contact as the presentation shell renders it.
type Contact struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// Row holds the animated values of a single list row. The shell applies Offset as a horizontal
// translation of the row body, Height and Opacity to the whole row, and DeleteOpacity to the
// delete affordance behind it.
type Row struct {
	Id            string  `json:"id"`
	Phase         string  `json:"phase"`
	Offset        float64 `json:"offset"`
	Height        float64 `json:"height"`
	Opacity       float64 `json:"opacity"`
	DeleteOpacity float64 `json:"deleteOpacity"`
}

// Form describes the state of the contact input form. Editing is false in create mode.
type Form struct {
	Visible bool     `json:"visible"`
	Editing bool     `json:"editing"`
	Title   string   `json:"title"`
	Submit  string   `json:"submit"`
	Contact *Contact `json:"contact,omitempty"`
}
