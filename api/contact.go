package api

type Contact struct {
	ID       int64  `json:"id" example:"1" readOnly:"true"`
	Name     string `json:"name" example:"Ana"`
	Surname  string `json:"surname" example:"Diaz"`
	Phone    string `json:"phone" example:"555-1111"`
	Email    string `json:"email" example:"ana@example.com"`
	Address  string `json:"address" example:"1 Main St"`
	ImageRef string `json:"image_ref" example:"images/5f0c..._ana.png"`
}

type ContactSummary struct {
	ID      int64  `json:"id" example:"1"`
	Name    string `json:"name" example:"Ana"`
	Surname string `json:"surname" example:"Diaz"`
}

// ContactProto is the body of a create or update request. ImagePath names an image
// file on the server's filesystem to import; empty keeps the current image.
type ContactProto struct {
	Name      string `json:"name" example:"Ana"`
	Surname   string `json:"surname" example:"Diaz"`
	Phone     string `json:"phone" example:"555-1111"`
	Email     string `json:"email,omitempty" example:"ana@example.com"`
	Address   string `json:"address,omitempty" example:"1 Main St"`
	ImagePath string `json:"image_path,omitempty" example:"/home/ana/photo.png"`
}

type CreatedContact struct {
	ID int64 `json:"id" example:"1"`
}
