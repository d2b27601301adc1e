// Package prompt builds the text sent to the generation oracle. The section
// vocabulary emitted here (PODCAST_NAME:, ## Key Points, ...) is a contract
// with the email and PDF formatters, which parse the result back out by
// header matching.
package prompt

import (
	"strings"
	"text/template"

	"PodcastSummarizer/internal/domain"
)

// MaxContentChars caps the transcript or article text embedded in a prompt.
const MaxContentChars = 50000

var podcastTemplate = template.Must(template.New("podcast").Parse(`Analyze this podcast transcript and create a comprehensive summary with specific, actionable insights.
{{if .Profile}}
Tailor the analysis to this reader:
{{.Profile}}{{end}}{{if .Instruction}}
Additional instruction from the reader: {{.Instruction}}
{{end}}
First, provide:
PODCAST_NAME: [Name of the podcast/show]
TITLE: [Extract the main topic or most compelling insight as a title]
EPISODE_INFO: [Guest name(s) and their role/company]
TWO_LINE_SUMMARY: [2 sentence overview capturing the core value and unique perspective of this episode]

Then create these sections:

## Key Points (7-10 specific points with details)
- Include concrete examples, metrics, and specific strategies mentioned
- Each point should provide actionable detail, not generic statements
- Focus on unique insights rather than obvious observations

## Notable Quotes (5-7 memorable quotes)
- Direct quotes that capture pivotal moments or unique perspectives
- Include context and speaker attribution

## Founder Insights
Identify 2 specific pieces of information that would be particularly valuable for founders/entrepreneurs:
- Focus on tactical advice, non-obvious lessons, or specific strategies

## People, Companies & References
- Key people: name, role, and why they're relevant to the discussion
- Companies mentioned: what they do and why they were referenced
- Books, frameworks, or concepts: brief explanation of each

## Main Takeaways (3-4 detailed lessons)
- Actionable insights with enough context to implement
- Include any frameworks or mental models discussed

## Episode Summary
A comprehensive paragraph (7-10 sentences) that captures the narrative arc, key turning points in the conversation, and the unique value this episode provides.

## Insight Rating
Rate this episode on three dimensions (1-10 scale):
- Usefulness: How actionable and practical are the insights?
- Novelty: How unique or counterintuitive is the information?
- Depth: How thoroughly were topics explored with specific examples?
Overall Assessment: [Brief explanation of the rating]

## Topics
Relevant hashtags and categories for discovery

Transcript:
{{.Content}}`))

var articleTemplate = template.Must(template.New("article").Parse(`Analyze this article and create a comprehensive summary with specific, actionable insights.
{{if .Profile}}
Tailor the analysis to this reader:
{{.Profile}}{{end}}{{if .Instruction}}
Additional instruction from the reader: {{.Instruction}}
{{end}}
First, provide:
ARTICLE_TITLE: [The article's title{{if .Title}}; the page reported "{{.Title}}"{{end}}]
AUTHOR_INFO: [Author name(s) and affiliation, if stated]
TWO_LINE_SUMMARY: [2 sentence overview capturing the article's thesis and why it matters]

Then create these sections:

## KEY_ARGUMENTS:
- The article's main claims with the evidence offered for each
- Concrete numbers, studies, or examples cited

## Notable Quotes (3-5 passages)
- Direct quotes that carry the article's strongest points

## People, Companies & References
- Key people, companies, books, and concepts mentioned, each briefly explained

## Main Takeaways (3-4 detailed lessons)
- Actionable insights with enough context to apply them

## Article Summary
A comprehensive paragraph capturing the argument's structure and its strongest and weakest links.

## Insight Rating
Rate this article on Usefulness, Novelty, and Depth (1-10 scale) with a brief overall assessment.

## Topics
Relevant hashtags and categories for discovery

Article text:
{{.Content}}`))

const insightPrompt = `From the following summary, synthesize the single most valuable core insight in 2-3 sentences. State it directly, without preamble, as the one thing the reader should retain.

Summary:
`

type promptData struct {
	Profile     string
	Instruction string
	Title       string
	Content     string
}

// Podcast renders the transcript-summarization prompt.
func Podcast(transcript string, profile domain.UserProfile, instruction string) string {
	return render(podcastTemplate, promptData{
		Profile:     renderProfile(profile),
		Instruction: strings.TrimSpace(instruction),
		Content:     Truncate(transcript),
	})
}

// Article renders the article-summarization prompt.
func Article(content domain.ArticleContent, profile domain.UserProfile, instruction string) string {
	return render(articleTemplate, promptData{
		Profile:     renderProfile(profile),
		Instruction: strings.TrimSpace(instruction),
		Title:       strings.TrimSpace(content.Title),
		Content:     Truncate(content.Text),
	})
}

// Insight renders the condensed core-insight prompt over a generated summary.
func Insight(summary string) string {
	return insightPrompt + Truncate(summary)
}

// Truncate caps embedded content at MaxContentChars.
func Truncate(content string) string {
	if len(content) > MaxContentChars {
		return content[:MaxContentChars]
	}
	return content
}

func render(tmpl *template.Template, data promptData) string {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		// Templates are static and the data is plain strings; an execute
		// error here is a programming bug.
		panic(err)
	}
	return b.String()
}

func renderProfile(profile domain.UserProfile) string {
	var lines []string
	if profile.Role != "" {
		lines = append(lines, "Role: "+profile.Role)
	}
	if len(profile.Interests) > 0 {
		lines = append(lines, "Interests: "+strings.Join(profile.Interests, ", "))
	}
	if len(profile.Goals) > 0 {
		lines = append(lines, "Goals: "+strings.Join(profile.Goals, ", "))
	}
	if profile.Context != "" {
		lines = append(lines, "Context: "+profile.Context)
	}
	return strings.Join(lines, "\n")
}
