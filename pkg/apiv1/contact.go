package apiv1

// Contact is a person the user settles with.
type Contact struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Balance   string `json:"balance"`
	CreatedAt int64  `json:"created_at"`
}

type CreateContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type CreateContactResponse struct {
	Contact *Contact `json:"contact"`
}

type GetContactRequest struct {
	ContactId string `json:"contact_id"`
}

type GetContactResponse struct {
	Contact *Contact `json:"contact"`
}

type ListContactsRequest struct{}

type ListContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
}

type UpdateContactRequest struct {
	ContactId string `json:"contact_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
}

type UpdateContactResponse struct {
	Contact *Contact `json:"contact"`
}

type DeleteContactRequest struct {
	ContactId string `json:"contact_id"`
}

type DeleteContactResponse struct{}
