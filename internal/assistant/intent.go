package assistant

import (
	"strings"

	"github.com/ashureev/interview-copilot/internal/domain"
)

// intentRule binds a keyword set to an intent. Rules are evaluated in order
// and the first rule with a matching keyword wins, so a message containing
// both add-interview and add-question keywords classifies as add_interview.
type intentRule struct {
	intent     domain.IntentType
	confidence float64
	keywords   []string
	extract    func(string) domain.Entities
}

var intentRules = []intentRule{
	{
		intent:     domain.IntentAddInterview,
		confidence: 0.9,
		keywords:   []string{"添加面试", "新增面试", "面试安排", "面试时间", "有面试"},
		extract:    ExtractInterviewEntities,
	},
	{
		intent:     domain.IntentDeleteInterview,
		confidence: 0.9,
		keywords:   []string{"删除面试", "取消面试", "移除面试"},
		extract:    ExtractInterviewEntities,
	},
	{
		intent:     domain.IntentAddQuestion,
		confidence: 0.8,
		keywords:   []string{"面试题", "面经", "面试官问了", "复盘", "刚面试"},
		extract:    ExtractQuestionEntities,
	},
}

// IdentifyIntent classifies a chat message into one of the fixed intent
// categories and attaches the extracted entities.
func IdentifyIntent(message string) domain.Intent {
	lower := strings.ToLower(message)

	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return domain.Intent{
					Type:       rule.intent,
					Confidence: rule.confidence,
					Entities:   rule.extract(message),
				}
			}
		}
	}

	return domain.Intent{Type: domain.IntentGeneralQuery, Confidence: 0.5}
}
