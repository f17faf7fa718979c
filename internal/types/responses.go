package types

import "gorm.io/datatypes"

type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// UserSummary is the shape embedded in messages and tour requests.
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// HouseSummary is the shape embedded in messages and tour requests. Price
// and Images are only populated for tour request views.
type HouseSummary struct {
	ID       uint           `json:"id"`
	Title    string         `json:"title"`
	Location string         `json:"location"`
	Price    float64        `json:"price,omitempty"`
	Images   datatypes.JSON `json:"images,omitempty"`
}
