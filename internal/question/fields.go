package question

// Field names shared by the form layer, edit allow-lists and SQL columns.
const (
	FieldID             = "id"
	FieldType           = "type"
	FieldDescription    = "description"
	FieldOrder          = "question_order"
	FieldQuestionSetID  = "question_set_id"
	FieldChoices        = "choices"
	FieldChoiceOne      = "choice_one"
	FieldChoiceTwo      = "choice_two"
	FieldChoiceThree    = "choice_three"
	FieldChoiceFour     = "choice_four"
	FieldCorrectAnswer  = "correct_answer"
	FieldUnits          = "units"
	FieldUnitsGiven     = "units_given"
	FieldAccuracy       = "accuracy"
	FieldAccuracyDegree = "accuracy_degree"

	// answer form
	FieldAnswer      = "answer"
	FieldAnswerUnits = "answer_units"
)

// ChoiceFields lists the multiple-choice columns in index order.
var ChoiceFields = [NumChoices]string{FieldChoiceOne, FieldChoiceTwo, FieldChoiceThree, FieldChoiceFour}

// baseEditable are the base-entity fields an edit may touch. Order is
// changed only through Reorder.
var baseEditable = []string{FieldDescription}
