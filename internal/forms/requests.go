package forms

// Request payloads accepted by the HTTP API. Length limits follow the
// column sizes the front end was built around.

type Register struct {
	Username        string `json:"username" validate:"required,username"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type NewTopics struct {
	Titles []string `json:"titles" validate:"required,min=1,dive,required,max=50"`
}

type EditTopic struct {
	Title string `json:"title" validate:"required,max=50"`
}

type NewQuestionSets struct {
	TopicID      int64    `json:"topic_id" validate:"required,gt=0"`
	Descriptions []string `json:"descriptions" validate:"required,min=1,dive,required,max=100"`
}

type EditQuestionSet struct {
	Description string `json:"description" validate:"required,max=100"`
}

type Reorder struct {
	Order []int64 `json:"order" validate:"required,min=1"`
}
