package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
)

const (
	replyStoreError    = "操作时出现错误，请稍后重试。"
	replyAddError      = "添加面试时出现错误，请稍后重试。"
	replyQuestionError = "添加面试题时出现错误，请稍后重试。"
	replyBadTimeFormat = "抱歉，我无法理解这个时间格式。请使用类似\"明天下午2点\"或\"6月15日14:00\"的格式。"
	replyDeleteWhich   = "请告诉我要删除哪家公司的面试，或者具体的面试时间。"
	replyNoMatch       = "没有找到匹配的面试记录。"
	replyNoInterviews  = "您还没有面试记录。请先添加面试安排。"
)

func textReply(content string) *domain.Reply {
	return &domain.Reply{Content: content, Actions: []domain.Action{}}
}

// handleAddInterview validates the extracted entities, parses the time
// phrase and creates the interview. Missing fields produce a single
// clarification reply with no store mutation (no multi-turn memory).
func (s *Service) handleAddInterview(ctx context.Context, intent domain.Intent) *domain.Reply {
	e := intent.Entities

	if e.Company == "" || e.Time == "" {
		var missing []string
		if e.Company == "" {
			missing = append(missing, "公司名称")
		}
		if e.Time == "" {
			missing = append(missing, "面试时间")
		}
		return textReply(fmt.Sprintf("好的，我来帮您添加面试。请补充以下信息：%s", strings.Join(missing, "、")))
	}

	datetime, ok := ParseDateTime(e.Time, s.now())
	if !ok {
		return textReply(replyBadTimeFormat)
	}

	iv := &domain.Interview{
		Company:  e.Company,
		Datetime: datetime,
		Position: e.Position,
		Notes:    fmt.Sprintf("由AI助手自动添加于 %s", formatDate(s.now())),
	}

	stored, err := s.repo.AddInterview(ctx, iv)
	if err != nil {
		s.logger.Error("add interview failed", "company", e.Company, "error", err)
		return textReply(replyAddError)
	}

	return &domain.Reply{
		Content: fmt.Sprintf("已成功为您添加面试：%s %s（%s）",
			stored.Company, stored.Position, formatDateTime(datetime)),
		Actions: []domain.Action{{
			Type: domain.ActionInterviewAdded,
			Data: domain.ActionData{Interview: stored},
		}},
	}
}

// handleDeleteInterview matches interviews by company substring and/or the
// calendar date of the parsed time phrase. Only an unambiguous single match
// is deleted; the deleted record rides on the action so the UI can undo by
// re-creating it.
func (s *Service) handleDeleteInterview(ctx context.Context, intent domain.Intent) *domain.Reply {
	e := intent.Entities

	if e.Company == "" && e.Time == "" {
		return textReply(replyDeleteWhich)
	}

	interviews, err := s.repo.ListInterviews(ctx)
	if err != nil {
		s.logger.Error("list interviews failed", "error", err)
		return textReply(replyStoreError)
	}

	var matched []domain.Interview
	if e.Company != "" {
		for _, iv := range interviews {
			if strings.Contains(iv.Company, e.Company) {
				matched = append(matched, iv)
			}
		}
	}

	if e.Time != "" {
		if target, ok := ParseDateTime(e.Time, s.now()); ok {
			pool := matched
			if len(pool) == 0 {
				pool = interviews
			}
			var byDate []domain.Interview
			for _, iv := range pool {
				if sameDate(iv.Datetime, target) {
					byDate = append(byDate, iv)
				}
			}
			matched = byDate
		}
	}

	switch len(matched) {
	case 0:
		return textReply(replyNoMatch)
	case 1:
		deleted, err := s.repo.DeleteInterview(ctx, matched[0].ID)
		if err != nil || deleted == nil {
			s.logger.Error("delete interview failed", "id", matched[0].ID, "error", err)
			return textReply(replyStoreError)
		}
		return &domain.Reply{
			Content: fmt.Sprintf("已删除面试：%s %s", deleted.Company, deleted.Position),
			Actions: []domain.Action{{
				Type: domain.ActionInterviewDeleted,
				Data: domain.ActionData{Interview: deleted},
			}},
		}
	default:
		lines := make([]string, len(matched))
		for i, iv := range matched {
			lines[i] = fmt.Sprintf("%d. %s %s (%s)",
				i+1, iv.Company, iv.Position, formatDateTime(iv.Datetime))
		}
		return textReply(fmt.Sprintf("找到多条匹配的面试记录：\n%s\n\n请提供更具体的信息来确定要删除哪一条。",
			strings.Join(lines, "\n")))
	}
}

// handleAddQuestion stores a question on the most recently dated interview
// and backfills a generated answer. The generated answer is persisted with
// an explicit second write so both question kinds follow the same policy.
func (s *Service) handleAddQuestion(ctx context.Context, raw string, intent domain.Intent) *domain.Reply {
	interviews, err := s.repo.ListInterviews(ctx)
	if err != nil {
		s.logger.Error("list interviews failed", "error", err)
		return textReply(replyStoreError)
	}
	if len(interviews) == 0 {
		return textReply(replyNoInterviews)
	}

	sort.SliceStable(interviews, func(i, j int) bool {
		return interviews[i].Datetime.After(interviews[j].Datetime)
	})
	recent := interviews
	if len(recent) > 3 {
		recent = recent[:3]
	}
	// Only the single most recent interview is targeted; the three-element
	// slice is kept so a future UI can let the user pick among them.
	target := &recent[0]

	questionText := intent.Entities.Question
	if questionText == "" {
		questionText = raw
	}

	if intent.Entities.IsReal {
		question, err := s.repo.AddRealQuestion(ctx, target.ID, domain.Question{Question: questionText})
		if err != nil || question == nil {
			s.logger.Error("add real question failed", "interview_id", target.ID, "error", err)
			return textReply(replyQuestionError)
		}
		answer := GenerateReviewAnswer(questionText)
		if updated, err := s.repo.UpdateQuestionAnswer(ctx, target.ID, question.ID, domain.QuestionReal, answer); err != nil || updated == nil {
			s.logger.Warn("persist review answer failed", "question_id", question.ID, "error", err)
			question.Answer = answer
		} else {
			question = updated
		}
		return &domain.Reply{
			Content: fmt.Sprintf("已为您添加真实面经到 %s 的面试记录，并生成了复盘答案。", target.Company),
			Actions: []domain.Action{{
				Type: domain.ActionQuestionAdded,
				Data: domain.ActionData{Interview: target, Question: question, Kind: domain.QuestionReal},
			}},
		}
	}

	question, err := s.repo.AddMockQuestion(ctx, target.ID, domain.Question{Question: questionText})
	if err != nil || question == nil {
		s.logger.Error("add mock question failed", "interview_id", target.ID, "error", err)
		return textReply(replyQuestionError)
	}
	answer := GenerateMockAnswer(questionText, target.JobDescription)
	if updated, err := s.repo.UpdateQuestionAnswer(ctx, target.ID, question.ID, domain.QuestionMock, answer); err != nil || updated == nil {
		s.logger.Warn("persist mock answer failed", "question_id", question.ID, "error", err)
		question.Answer = answer
	} else {
		question = updated
	}
	return &domain.Reply{
		Content: fmt.Sprintf("已为您添加模拟面试题到 %s 的面试记录，并生成了参考答案。", target.Company),
		Actions: []domain.Action{{
			Type: domain.ActionQuestionAdded,
			Data: domain.ActionData{Interview: target, Question: question, Kind: domain.QuestionMock},
		}},
	}
}

// handleGeneralQuery delegates to the completion collaborator with the full
// transcript as context, falling back to the local responder on any failure.
func (s *Service) handleGeneralQuery(ctx context.Context, message string) *domain.Reply {
	if s.completer == nil {
		return textReply(LocalResponse(message))
	}

	history, err := s.repo.ListMessages(ctx)
	if err != nil {
		s.logger.Warn("load chat history failed", "error", err)
		history = nil
	}

	content, err := s.completer.Complete(ctx, message, history)
	if err != nil || content == "" {
		s.logger.Warn("completion failed, using local responder", "error", err)
		return textReply(LocalResponse(message))
	}
	return textReply(content)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
