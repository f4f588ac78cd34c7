package models

// Validate checks if the author meets all validation requirements
func (a *Author) Validate() error {
	return validate.Struct(a)
}

// FullName returns the author's name as "first last".
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

func (a *Author) String() string {
	return a.FullName()
}

// Validate checks if the tag meets all validation requirements
func (t *Tag) Validate() error {
	return validate.Struct(t)
}

func (t *Tag) String() string {
	return t.Caption
}
