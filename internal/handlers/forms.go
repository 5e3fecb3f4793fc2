package handlers

type StaffLoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (form *StaffLoginForm) Validate() map[string]string {
	formErrors := make(map[string]string)
	if err := validateUsername(form.Username); err != nil {
		formErrors["username"] = err.Error()
	}
	if err := validatePassword(form.Password); err != nil {
		formErrors["password"] = err.Error()
	}
	return formErrors
}
