package model

// UserPatch is a partial update of user fields.
// Nil fields are left untouched; this is the PATCH /users/{id} body.
type UserPatch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Title  *string `json:"title,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Title == nil && p.Status == nil
}

// Fields returns the set fields as a column→value map for the update.
func (p UserPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	return fields
}

// StatusPatch builds a patch that only changes the status.
func StatusPatch(status Status) UserPatch {
	return UserPatch{Status: &status}
}
