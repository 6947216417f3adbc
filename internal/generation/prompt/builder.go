// Package prompt assembles provider-facing instruction strings from
// content parameters and randomly drawn rhetorical framings, and derives
// the deterministic cache key for each request.
package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Input carries the content parameters a builder turns into a prompt.
type Input struct {
	Theme          string
	Topic          string
	TargetAudience string
	SourceContent  string
	TargetLength   int
	ExcludeTones   []string
}

// Formatting rules embedded verbatim into every short-form prompt. The
// downstream model owns compliance; nothing is validated afterwards.
const shortFormRules = `Formatting rules, all mandatory:
- Do not use hashtags.
- Do not use bullet points or numbered lists.
- Do not use exclamation marks.
- Do not add a call to action.
- Return exactly one final answer with no alternatives, preamble, or commentary.`

// Extra rules for long-form LinkedIn posts.
const linkedInRules = `- Write flowing paragraphs separated by blank lines, suitable for LinkedIn.
- Do not open with a greeting or close with a sign-off.`

// Builder assembles prompts and cache keys. The random draws go through a
// guarded source so one Builder can serve concurrent requests.
type Builder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder creates a Builder drawing from the given source.
func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// intn returns a uniform draw in [0, n) under the builder's lock.
func (b *Builder) intn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(n)
}

// HookPost builds the short-form post prompt: a drawn hook archetype and
// tone, the substituted opening instruction, and the platform formatting
// rules. Returns the prompt and the deterministic cache key for the input.
func (b *Builder) HookPost(in Input) (string, string) {
	archetype := b.pickArchetype()
	tone := b.pickTone(in.ExcludeTones)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a social media post about %q for the campaign theme %q.\n\n", in.Topic, in.Theme)
	fmt.Fprintf(&sb, "Hook style (%s): %s\n\n", archetype.Name, substitute(archetype.Template, in))
	fmt.Fprintf(&sb, "Tone: %s.\n", tone)
	fmt.Fprintf(&sb, "Audience: %s.\n", in.TargetAudience)
	fmt.Fprintf(&sb, "Keep the post within roughly %d characters.\n\n", in.TargetLength)
	sb.WriteString(shortFormRules)

	return sb.String(), KeyForRequest("hook", in)
}

// LinkedInPost builds the long-form prompt: same drawing machinery as
// HookPost with a minimum-length framing and LinkedIn formatting rules.
func (b *Builder) LinkedInPost(in Input) (string, string) {
	archetype := b.pickArchetype()
	tone := b.pickTone(in.ExcludeTones)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a LinkedIn post about %q for the campaign theme %q.\n\n", in.Topic, in.Theme)
	fmt.Fprintf(&sb, "Hook style (%s): %s\n\n", archetype.Name, substitute(archetype.Template, in))
	fmt.Fprintf(&sb, "Tone: %s.\n", tone)
	fmt.Fprintf(&sb, "Audience: %s.\n", in.TargetAudience)
	fmt.Fprintf(&sb, "Write at least %d characters; depth matters more than brevity here.\n\n", in.TargetLength)
	sb.WriteString(shortFormRules)
	sb.WriteString("\n")
	sb.WriteString(linkedInRules)

	return sb.String(), KeyForRequest("linkedin", in)
}

// Rewrite builds the rewrite-existing-content prompt. Its cache key covers
// only the source content, so rewriting the same post inside the TTL
// window reuses the prior rewrite.
func (b *Builder) Rewrite(content string, targetLength int) (string, string) {
	tone := b.pickTone(nil)

	var sb strings.Builder
	sb.WriteString("Rewrite the following post for LinkedIn, preserving its core message and facts.\n\n")
	fmt.Fprintf(&sb, "Original post:\n%s\n\n", content)
	fmt.Fprintf(&sb, "Tone: %s.\n", tone)
	fmt.Fprintf(&sb, "Write at least %d characters; expand with context rather than padding.\n\n", targetLength)
	sb.WriteString(shortFormRules)
	sb.WriteString("\n")
	sb.WriteString(linkedInRules)

	return sb.String(), KeyForContent(content)
}

// substitute fills the archetype template placeholders from the input.
func substitute(template string, in Input) string {
	return strings.NewReplacer(
		"{audience}", in.TargetAudience,
		"{topic}", in.Topic,
		"{content}", in.SourceContent,
	).Replace(template)
}

// KeyForRequest derives the deterministic cache key from the variant name
// and the fields that determine the output. The random archetype and tone
// draws are deliberately excluded: two calls with the same content
// parameters are the same request.
func KeyForRequest(variant string, in Input) string {
	return hashKey(
		variant,
		in.TargetAudience,
		in.SourceContent,
		in.Theme,
		in.Topic,
		fmt.Sprintf("%d", in.TargetLength),
	)
}

// KeyForContent derives a cache key from a single piece of content, used
// by the rewrite variant and for caller-built prompts.
func KeyForContent(content string) string {
	return hashKey(content)
}

// hashKey hashes its parts with a length prefix per part so distinct
// field splits can never collide.
func hashKey(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%d:", len(part))
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
