package prompts

import (
	"fmt"
	"strings"
)

// FeedbackInstruction is the scoring instruction sent alongside one answered
// question. The reply must be a JSON object with "rating" and "feedback" keys.
const FeedbackInstruction = `You are an experienced technical interviewer reviewing one answer
from a mock interview. Compare the user's answer against the reference answer.
Provide:
1. A rating out of 10 (integer)
2. Detailed, constructive feedback on the answer
Respond as JSON with 'rating' and 'feedback' keys only.`

// TranscriptionInstruction prefixes the inline audio clip sent for
// speech-to-text.
const TranscriptionInstruction = "Transcribe the following audio:"

// QuestionGeneration builds the instruction used to produce the question set
// for a new mock interview.
func QuestionGeneration(jobPosition, jobDesc string, jobExperience, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job Position: %s\n", jobPosition)
	fmt.Fprintf(&b, "Job Description / Tech Stack: %s\n", jobDesc)
	fmt.Fprintf(&b, "Years of Experience: %d\n\n", jobExperience)
	fmt.Fprintf(&b, "Generate %d interview questions with answers for this role. ", count)
	b.WriteString(`Respond as JSON: {"questions":[{"question":"...","answer":"..."}]}. ` +
		"Each answer is a concise model answer an interviewer would accept.")
	return b.String()
}
