package prompt

// HookArchetype is a named rhetorical opening pattern used to shape the
// first line of a generated post. Template placeholders {audience},
// {topic} and {content} are substituted from the request.
type HookArchetype struct {
	Name     string
	Template string
}

// Archetypes is the immutable catalog of hook patterns. One is drawn
// uniformly at random per request, with no avoidance of repeats across
// requests.
var Archetypes = []HookArchetype{
	{
		Name:     "Problem-Solution",
		Template: "Open by naming the single most painful problem {audience} face with {topic}, then pivot to the solution found in: {content}",
	},
	{
		Name:     "Bold Claim",
		Template: "Open with a confident, slightly provocative claim about {topic} that {audience} will want to argue with, supported by: {content}",
	},
	{
		Name:     "Surprising Stat",
		Template: "Open with the most surprising number or statistic implied by {content}, framed so {audience} immediately see what it means for {topic}",
	},
	{
		Name:     "Question Hook",
		Template: "Open with one sharp question about {topic} that {audience} secretly ask themselves, then answer it using: {content}",
	},
	{
		Name:     "Myth Buster",
		Template: "Open by naming a widely held belief about {topic} that {content} proves wrong, and tell {audience} what is actually true",
	},
	{
		Name:     "Contrarian Take",
		Template: "Open by taking the opposite position from the conventional wisdom {audience} hear about {topic}, grounded in: {content}",
	},
	{
		Name:     "Mini Story",
		Template: "Open with a two-sentence scene that drops {audience} into a concrete moment related to {topic}, drawn from: {content}",
	},
	{
		Name:     "Before-After",
		Template: "Open by contrasting how {audience} handle {topic} today with how it looks after applying the insight in: {content}",
	},
	{
		Name:     "Costly Mistake",
		Template: "Open by naming the expensive mistake {audience} keep making with {topic}, then show the fix from: {content}",
	},
	{
		Name:     "Insider Secret",
		Template: "Open by revealing something practitioners know about {topic} that {audience} rarely hear stated plainly, based on: {content}",
	},
	{
		Name:     "Curiosity Gap",
		Template: "Open with an incomplete observation about {topic} that makes {audience} need the second line, resolved using: {content}",
	},
	{
		Name:     "Direct Address",
		Template: "Open by speaking straight to {audience} in the second person about the one thing they should change about {topic}, per: {content}",
	},
	{
		Name:     "Hard Lesson",
		Template: "Open with a lesson about {topic} that sounds like it was learned the hard way, distilled for {audience} from: {content}",
	},
	{
		Name:     "Quiet Observation",
		Template: "Open with a calm, specific observation about {topic} that {audience} will recognize from their own work, expanded with: {content}",
	},
}
