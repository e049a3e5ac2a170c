package cache

const (
	questionPrefix = "question:"
	lessonPrefix   = "lesson:"
)

func QuestionKey(questionID string) string {
	return questionPrefix + questionID
}

// LessonQuestionsKey holds the ordered question set of a lesson.
func LessonQuestionsKey(lessonID string) string {
	return lessonPrefix + lessonID + ":questions"
}

// LessonPattern matches every key cached for a lesson.
func LessonPattern(lessonID string) string {
	return lessonPrefix + lessonID + ":*"
}
