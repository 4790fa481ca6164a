package models

// All returns every model that must be migrated at startup
func All() []interface{} {
	return []interface{}{
		&User{},
		&Case{},
		&CaseAttachment{},
		&CaseComment{},
		&Task{},
		&TaskComment{},
		&Meeting{},
	}
}
