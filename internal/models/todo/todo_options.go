package todo

// функция частичного обновления: каждая опция меняет одно поле задачи
type Option func(*Todo)

func WithTitle(title string) Option {
	return func(t *Todo) {
		t.Title = title
	}
}

func WithDescription(description string) Option {
	return func(t *Todo) {
		t.Description = description
	}
}

func WithStatus(status Status) Option {
	return func(t *Todo) {
		t.Status = status
	}
}
