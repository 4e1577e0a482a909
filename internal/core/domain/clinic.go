package domain

import "time"

// Branch is a clinic location. Branch management is owner-only.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is an inventory entry. Reading stock is open to both roles;
// mutations are owner-only.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	BranchID  string    `json:"branch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patient is the minimal patient record the back office exposes to both
// roles. Clinical detail (consultations, pregnancies, documents) is handled
// elsewhere.
type Patient struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	BranchID  string    `json:"branch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportSummary aggregates back-office counts for the owner dashboard.
type ReportSummary struct {
	Users    int64 `json:"users"`
	Branches int64 `json:"branches"`
	Items    int64 `json:"items"`
	Patients int64 `json:"patients"`
}
