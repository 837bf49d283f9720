package extractor

import (
	"fmt"
	"strings"
)

const extractionPromptTemplate = `You are a context extraction assistant. Your task is to analyze audio recordings where users provide personal context information and extract it in a clean, structured format.

## Your Task

Extract context data from the user's audio recording. Context data refers to specific information about the user that can be used to ground AI inference for more personalized results.

## Transformation Guidelines

1. Remove irrelevant information (e.g., tangential conversations, notes to self)
2. Remove duplicates and redundancy
3. Reformat from first person to third person, referring to "%[1]s"
4. Organize information hierarchically with clear sections
5. Present information in a clean, structured markdown format

## Example Transformation

INPUT (raw audio transcript):
"Okay so ... let's document my health problems and the meds I take for this AI project ... ehm.. where do i start ... well, I've had asthma since I was a kid. I take a daily inhaler called Relvar for that. I also take Vyvanse for ADHD which is a stimulant medication. Oh .. hey Jay! What's up, man! Yeah see you at the gym. Okay, where was I. Note to self, pick up the laundry later. Oh yeah .. I've been on Vyvanse for three years and think it's great. I get bloods every 3 months."

OUTPUT (cleaned context data):

## Medical Conditions

- %[1]s has had asthma since childhood
- %[1]s has adult ADHD

## Medication List

- %[1]s takes Relvar, daily, for asthma
- %[1]s takes Vyvanse 70mg, daily, for ADHD

## Important Notes

Follow a careful hierarchical structure that allows additional context to be easily integrated later. Use clear section headers and bullet points for organization.

Now process the provided audio recording and extract the context data following these guidelines.`

const namingPrompt = `Based on the context data you just extracted, provide a JSON object with:
1. human_readable_name: A clear, descriptive title for this context (e.g., "Medical History and Medications", "Movie Preferences")
2. filename_slug: A snake_case version suitable for a filename (e.g., "medical_history_medications", "movie_preferences")

Respond ONLY with a valid JSON object in this exact format:
{
  "human_readable_name": "Your Title Here",
  "filename_slug": "your_filename_here"
}`

// buildExtractionPrompt renders the extraction instructions around
// the reference used for third-person rewriting. A blank name takes
// the generic placeholder.
func buildExtractionPrompt(userName string) string {
	ref := strings.TrimSpace(userName)
	if ref == "" {
		ref = "the user"
	}
	return fmt.Sprintf(extractionPromptTemplate, ref)
}

// buildNamingPrompt returns the constant follow-up instructions for
// deriving a title and slug from already-extracted context data.
func buildNamingPrompt() string {
	return namingPrompt
}
