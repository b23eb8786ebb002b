package service

import (
	"fmt"
	"strings"
)

const (
	linkSystemPrompt     = "You extract employer websites and social profiles from freelance job postings. Reply with JSON only."
	templateSystemPrompt = "You are an email writer who writes applications to people and companies that need a freelance service."
	followUpSystemPrompt = "You are an email writer who writes follow-ups for applications previously sent to people and companies that need a freelance service."
	dmSystemPrompt       = "You are a social media outreach specialist who writes engaging Instagram DMs for freelance job applications."
	keywordSystemPrompt  = "Identify brand names and person names and return each on a new line."
)

const linkPrompt = `- Extract only employer or company links from the text.
- IGNORE reference links, competitor brands, inspirational designs and websites to clone.
- IGNORE the link if the poster is outsourcing work, e.g. "looking for a freelancer to help our client 'somecompany'".
- If the employer states their own company site or social profile, extract it.

- Return JSON: {"websites":[], "social_links":[]}.

Input:
%s`

const emailSample = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>[subject line]</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; }
      a { color: #007bff; text-decoration: none; }
      ul { margin: 0; }
    </style>
  </head>
  <body>
    %s
    <p>%s | [Designer/Web Developer etc]</p>
  </body>
</html>`

const applicationBody = `<p>Hi [person's or brand's name ONLY if you can determine it, otherwise just "Hi,"],</p>
    <p>I'm reaching out regarding your [company/brand] [website/design/logo etc] needs.</p>
    <ul>
      <li>I am a [Web Developer/Logo Designer etc] and I've [designed/built] [websites/posters/apps] for many [companies/brands] with consistently positive feedback.</li>
      <li>I'd love to work with you on [the task mentioned in the job].</li>
      <li>[Optional: a concise direction or approach for the problem.]</li>
    </ul>
    <p>Would love to learn and discuss more on this.</p>
    <p>Please check out my recent works here:<br/>Portfolio: [only portfolio link]</p>`

const followUpBody = `<p>Hi [person's or brand's name ONLY if you can determine it, otherwise just "Hi,"],</p>
    <p>I reached out earlier regarding your [company/brand] [website/logo etc] needs and wanted to follow up since it seems you haven't hired anyone yet.</p>
    <ul>
      <li>I'm a [Web Developer/Logo Designer etc] with experience [developing/designing] [websites/posters/apps] for various brands.</li>
      <li>I'm happy to assist with [the task mentioned in the job, concisely].</li>
      <li>Let me know if you'd like to discuss how I can help!</li>
    </ul>
    <p>You can check out my recent works here:<br/>Portfolio: [only portfolio link]</p>
    <p>Looking forward to your response.</p>`

const templatePrompt = `%s Keep the jargon minimal.
The email should:
- Write Subject [Application for [work] needs]
- Be concise
- Highlight skills matching the job requirements
- Replace words in [] that fit the job
%s
- Role title in [] should be close to common roles (e.g. Web Developer, Graphic Designer, SEO Expert)

This is the sample:

%s

Format the response exactly as follows and nothing else:
SUBJECT:
[subject line]

BODY:
[email body]

Job Description:
"%s"`

const dmPrompt = `Analyze this job description and curate a short and engaging Instagram DM for the job.
The DM should:
- Be concise, natural and friendly
- Use a conversational tone
- Highlight skills matching the job requirements
- Replace words in [] that fit the job
%s
- Avoid excessive formality

This is the sample:

"Hey [person's or brand's name], I came across your post about [job/task] and wanted to reach out! I'm a [Web Developer/Designer etc] with experience in [relevant skill], and I'd love to help you with [the task]. Let me know if you're open to chatting!"

Format your response exactly as follows and nothing else:
MESSAGE:
[Instagram DM]

Job Description:
"%s"`

const keywordPrompt = `Identify people names or names that may be of small to mid-sized companies, brands or organizations in the text.
Exclude:
- Generic terms (e.g. designer, developer, technology names)
- Designation titles (e.g. manager, CEO)
- Popular or big brands and companies, or widely used tech and software (e.g. Facebook, Wordpress, Next.js, Figma, AWS)
- Places, events, genres
- Anything other than person names or specific brand/organization names

Return each name on a new line. If no such names are found, return "NONE" without any explanation:

Text: "%s"`

func portfolioRule(developer, design string) string {
	var links []string
	if developer != "" {
		links = append(links, "developer: "+developer)
	}
	if design != "" {
		links = append(links, "design: "+design)
	}
	if len(links) == 0 {
		return "- Do not mention a portfolio link"
	}
	return fmt.Sprintf("- Only share a portfolio if the job is for graphic design, software development or SEO (%s)\n"+
		"- Don't mention a portfolio if the job is for 3D modeling (excluding 3D websites), virtual assistance, writing, digital marketing or any other niche",
		strings.Join(links, ", "))
}

func signature(name string) string {
	if strings.TrimSpace(name) == "" {
		return "[your name]"
	}
	return name
}
