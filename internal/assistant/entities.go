package assistant

import (
	"regexp"
	"strings"

	"github.com/ashureev/interview-copilot/internal/domain"
)

// Extraction patterns are applied in order and every successful match
// overwrites the previous value, so the last matching pattern determines the
// field. This is intentional: changing it to first-match or longest-match
// changes behavior on ambiguous inputs.
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[在去到]([^\s，。！？、,!?的在去到]{2,10})(?:面试|公司)`),
	regexp.MustCompile(`([^\s，。！？、,!?的在去到]{2,10})(?:的面试|面试)`),
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`明天|后天|下周|这周|今天`),
	regexp.MustCompile(`\d{1,2}[点:：]\d{0,2}`),
	regexp.MustCompile(`\d{1,2}月\d{1,2}[日号]`),
	regexp.MustCompile(`\d{4}[-年]\d{1,2}[-月]\d{1,2}`),
}

var positionRe = regexp.MustCompile(`[^\s，。！？、,!?]{2,10}(?:岗位|职位|工程师|经理|专员)`)

// companyParticles strips the connective particles that surround a company
// name in phrases like "去字节跳动面试".
var companyParticles = strings.NewReplacer(
	"面试", "",
	"公司", "",
	"的", "",
	"在", "",
	"去", "",
	"到", "",
)

// realQuestionMarkers flag a message as describing a real interview rather
// than practice.
var realQuestionMarkers = []string{"面试官问了", "刚面试", "今天面试", "面试中"}

var quotedQuestionRe = regexp.MustCompile(`(?:问题|内容)[：:]?\s*[“”"'](.+?)[“”"']`)

// ExtractInterviewEntities pulls a company name, raw time phrase and
// position out of a free-text message.
func ExtractInterviewEntities(message string) domain.Entities {
	var e domain.Entities

	for _, pattern := range companyPatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			e.Company = strings.TrimSpace(companyParticles.Replace(m[1]))
		}
	}

	for _, pattern := range timePatterns {
		if m := pattern.FindString(message); m != "" {
			e.Time = m
		}
	}

	if m := positionRe.FindString(message); m != "" {
		e.Position = m
	}

	return e
}

// ExtractQuestionEntities determines whether a message describes a real
// interview question and extracts a quoted question text if present. When
// Question is empty the caller falls back to the whole raw message.
func ExtractQuestionEntities(message string) domain.Entities {
	var e domain.Entities

	for _, marker := range realQuestionMarkers {
		if strings.Contains(message, marker) {
			e.IsReal = true
			break
		}
	}

	if m := quotedQuestionRe.FindStringSubmatch(message); m != nil {
		e.Question = m[1]
	}

	return e
}
