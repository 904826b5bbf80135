package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
	"github.com/ashureev/interview-copilot/internal/store"
	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository for pipeline tests.
type fakeRepo struct {
	interviews []domain.Interview
	messages   []domain.Message

	addInterviewCalls int
	deleteCalls       int
	answerUpdates     int
}

func (f *fakeRepo) AddInterview(_ context.Context, iv *domain.Interview) (*domain.Interview, error) {
	f.addInterviewCalls++
	stored := *iv
	stored.ID = uuid.NewString()
	stored.MockQuestions = []domain.Question{}
	stored.RealQuestions = []domain.Question{}
	f.interviews = append(f.interviews, stored)
	return &stored, nil
}

func (f *fakeRepo) GetInterview(_ context.Context, id string) (*domain.Interview, error) {
	for i := range f.interviews {
		if f.interviews[i].ID == id {
			iv := f.interviews[i]
			return &iv, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListInterviews(_ context.Context) ([]domain.Interview, error) {
	out := make([]domain.Interview, len(f.interviews))
	copy(out, f.interviews)
	return out, nil
}

func (f *fakeRepo) UpdateInterview(_ context.Context, id string, update store.InterviewUpdate) (*domain.Interview, error) {
	for i := range f.interviews {
		if f.interviews[i].ID != id {
			continue
		}
		if update.Company != nil {
			f.interviews[i].Company = *update.Company
		}
		if update.Datetime != nil {
			f.interviews[i].Datetime = *update.Datetime
		}
		iv := f.interviews[i]
		return &iv, nil
	}
	return nil, nil
}

func (f *fakeRepo) DeleteInterview(_ context.Context, id string) (*domain.Interview, error) {
	for i := range f.interviews {
		if f.interviews[i].ID == id {
			f.deleteCalls++
			iv := f.interviews[i]
			f.interviews = append(f.interviews[:i], f.interviews[i+1:]...)
			return &iv, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SearchInterviews(_ context.Context, keyword string) ([]domain.Interview, error) {
	var out []domain.Interview
	for _, iv := range f.interviews {
		if strings.Contains(iv.Company, keyword) || strings.Contains(iv.Position, keyword) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeRepo) InterviewsInRange(_ context.Context, from, to time.Time) ([]domain.Interview, error) {
	var out []domain.Interview
	for _, iv := range f.interviews {
		if !iv.Datetime.Before(from) && !iv.Datetime.After(to) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeRepo) addQuestion(interviewID string, q domain.Question, kind domain.QuestionKind) (*domain.Question, error) {
	for i := range f.interviews {
		if f.interviews[i].ID != interviewID {
			continue
		}
		q.ID = uuid.NewString()
		if kind == domain.QuestionReal {
			f.interviews[i].RealQuestions = append(f.interviews[i].RealQuestions, q)
		} else {
			f.interviews[i].MockQuestions = append(f.interviews[i].MockQuestions, q)
		}
		return &q, nil
	}
	return nil, nil
}

func (f *fakeRepo) AddMockQuestion(_ context.Context, interviewID string, q domain.Question) (*domain.Question, error) {
	return f.addQuestion(interviewID, q, domain.QuestionMock)
}

func (f *fakeRepo) AddRealQuestion(_ context.Context, interviewID string, q domain.Question) (*domain.Question, error) {
	return f.addQuestion(interviewID, q, domain.QuestionReal)
}

func (f *fakeRepo) UpdateQuestionAnswer(_ context.Context, interviewID, questionID string, kind domain.QuestionKind, answer string) (*domain.Question, error) {
	for i := range f.interviews {
		if f.interviews[i].ID != interviewID {
			continue
		}
		bank := f.interviews[i].MockQuestions
		if kind == domain.QuestionReal {
			bank = f.interviews[i].RealQuestions
		}
		for j := range bank {
			if bank[j].ID == questionID {
				f.answerUpdates++
				bank[j].Answer = answer
				q := bank[j]
				return &q, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRepo) DeleteQuestion(_ context.Context, _, _ string, _ domain.QuestionKind) (*domain.Question, error) {
	return nil, nil
}

func (f *fakeRepo) ReplaceInterviews(_ context.Context, ivs []domain.Interview) error {
	f.interviews = ivs
	return nil
}

func (f *fakeRepo) ListMessages(_ context.Context) ([]domain.Message, error) {
	out := make([]domain.Message, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeRepo) AppendMessage(_ context.Context, msg domain.Message) (*domain.Message, error) {
	msg.ID = uuid.NewString()
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeRepo) ReplaceMessages(_ context.Context, msgs []domain.Message) error {
	f.messages = msgs
	return nil
}

func (f *fakeRepo) Statistics(_ context.Context, _ time.Time) (*domain.Statistics, error) {
	return &domain.Statistics{TotalInterviews: len(f.interviews)}, nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

type fakeCompleter struct {
	content string
	err     error
}

func (c *fakeCompleter) Complete(_ context.Context, _ string, _ []domain.Message) (string, error) {
	return c.content, c.err
}

func newTestService(repo store.Repository, completer Completer) *Service {
	svc := NewService(repo, completer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestRespond_AddInterview(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "我明天要去字节跳动面试，有面试安排")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if repo.addInterviewCalls != 1 {
		t.Fatalf("Expected 1 AddInterview call, got %d", repo.addInterviewCalls)
	}
	iv := repo.interviews[0]
	if iv.Company != "字节跳动" {
		t.Errorf("Expected company 字节跳动, got %q", iv.Company)
	}
	want := time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)
	if !iv.Datetime.Equal(want) {
		t.Errorf("Expected datetime %v, got %v", want, iv.Datetime)
	}

	if !strings.Contains(reply.Content, "已成功为您添加面试") {
		t.Errorf("Unexpected reply: %q", reply.Content)
	}
	if len(reply.Actions) != 1 || reply.Actions[0].Type != domain.ActionInterviewAdded {
		t.Errorf("Expected interview_added action, got %+v", reply.Actions)
	}
}

func TestRespond_AddInterviewMissingFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "有面试")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if repo.addInterviewCalls != 0 {
		t.Errorf("Expected no AddInterview call, got %d", repo.addInterviewCalls)
	}
	if !strings.Contains(reply.Content, "公司名称") || !strings.Contains(reply.Content, "面试时间") {
		t.Errorf("Expected clarification naming both missing fields, got %q", reply.Content)
	}
}

func TestRespond_AddInterviewBadTime(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	// The clock token is extracted last and is not parseable on its own.
	reply, err := svc.Respond(context.Background(), "明天下午2点去字节跳动面试，有面试")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if repo.addInterviewCalls != 0 {
		t.Errorf("Expected no AddInterview call, got %d", repo.addInterviewCalls)
	}
	if reply.Content != replyBadTimeFormat {
		t.Errorf("Expected time-format reply, got %q", reply.Content)
	}
}

func TestRespond_DeleteInterviewSingleMatch(t *testing.T) {
	repo := &fakeRepo{interviews: []domain.Interview{
		{ID: "iv-1", Company: "腾讯", Position: "后端工程师",
			Datetime: time.Date(2025, 6, 10, 14, 0, 0, 0, time.Local)},
		{ID: "iv-2", Company: "阿里", Position: "产品经理",
			Datetime: time.Date(2025, 6, 20, 10, 0, 0, 0, time.Local)},
	}}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "帮我取消面试，明天的")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if repo.deleteCalls != 1 {
		t.Fatalf("Expected 1 delete, got %d", repo.deleteCalls)
	}
	if !strings.Contains(reply.Content, "已删除面试：腾讯 后端工程师") {
		t.Errorf("Unexpected reply: %q", reply.Content)
	}
	if len(reply.Actions) != 1 || reply.Actions[0].Type != domain.ActionInterviewDeleted {
		t.Fatalf("Expected interview_deleted action, got %+v", reply.Actions)
	}
	if reply.Actions[0].Data.Interview.Company != "腾讯" {
		t.Errorf("Expected deleted record on the action, got %+v", reply.Actions[0].Data.Interview)
	}
}

func TestRespond_DeleteInterviewAmbiguous(t *testing.T) {
	repo := &fakeRepo{interviews: []domain.Interview{
		{ID: "iv-1", Company: "腾讯", Position: "后端工程师",
			Datetime: time.Date(2025, 6, 10, 14, 0, 0, 0, time.Local)},
		{ID: "iv-2", Company: "阿里", Position: "产品经理",
			Datetime: time.Date(2025, 6, 10, 16, 0, 0, 0, time.Local)},
	}}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "帮我取消面试，明天的")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if repo.deleteCalls != 0 {
		t.Errorf("Expected no delete on ambiguous match, got %d", repo.deleteCalls)
	}
	if !strings.Contains(reply.Content, "找到多条匹配的面试记录") {
		t.Errorf("Unexpected reply: %q", reply.Content)
	}
	if !strings.Contains(reply.Content, "1. 腾讯") || !strings.Contains(reply.Content, "2. 阿里") {
		t.Errorf("Expected numbered candidates, got %q", reply.Content)
	}
}

func TestRespond_DeleteInterviewNoMatch(t *testing.T) {
	repo := &fakeRepo{interviews: []domain.Interview{
		{ID: "iv-1", Company: "腾讯",
			Datetime: time.Date(2025, 6, 20, 14, 0, 0, 0, time.Local)},
	}}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "帮我取消面试，明天的")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if repo.deleteCalls != 0 {
		t.Errorf("Expected no delete, got %d", repo.deleteCalls)
	}
	if reply.Content != replyNoMatch {
		t.Errorf("Expected no-match reply, got %q", reply.Content)
	}
}

func TestRespond_AddRealQuestionTargetsMostRecent(t *testing.T) {
	repo := &fakeRepo{interviews: []domain.Interview{
		{ID: "iv-old", Company: "阿里",
			Datetime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)},
		{ID: "iv-new", Company: "腾讯",
			Datetime: time.Date(2025, 6, 8, 14, 0, 0, 0, time.Local)},
	}}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "刚面试完，面试官问了项目经历")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	var target *domain.Interview
	for i := range repo.interviews {
		if repo.interviews[i].ID == "iv-new" {
			target = &repo.interviews[i]
		}
	}
	if target == nil || len(target.RealQuestions) != 1 {
		t.Fatal("Expected one real question on the most recent interview")
	}
	if repo.answerUpdates != 1 {
		t.Errorf("Expected the generated answer to be persisted, got %d updates", repo.answerUpdates)
	}
	if target.RealQuestions[0].Answer == "" {
		t.Error("Expected a generated review answer")
	}

	if !strings.Contains(reply.Content, "真实面经") || !strings.Contains(reply.Content, "腾讯") {
		t.Errorf("Unexpected reply: %q", reply.Content)
	}
	if len(reply.Actions) != 1 || reply.Actions[0].Type != domain.ActionQuestionAdded {
		t.Fatalf("Expected question_added action, got %+v", reply.Actions)
	}
	if reply.Actions[0].Data.Kind != domain.QuestionReal {
		t.Errorf("Expected real kind on action, got %s", reply.Actions[0].Data.Kind)
	}
}

func TestRespond_AddMockQuestion(t *testing.T) {
	repo := &fakeRepo{interviews: []domain.Interview{
		{ID: "iv-1", Company: "腾讯",
			Datetime: time.Date(2025, 6, 8, 14, 0, 0, 0, time.Local)},
	}}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "给我出一道面试题")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if len(repo.interviews[0].MockQuestions) != 1 {
		t.Fatal("Expected one mock question")
	}
	if !strings.Contains(reply.Content, "模拟面试题") {
		t.Errorf("Unexpected reply: %q", reply.Content)
	}
}

func TestRespond_AddQuestionWithoutInterviews(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "给我出一道面试题")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Content != replyNoInterviews {
		t.Errorf("Expected no-interviews reply, got %q", reply.Content)
	}
}

func TestRespond_GeneralQueryUsesCompleter(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCompleter{content: "来自模型的回答"})

	reply, err := svc.Respond(context.Background(), "怎么准备秋招")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Content != "来自模型的回答" {
		t.Errorf("Expected completer content, got %q", reply.Content)
	}
}

func TestRespond_GeneralQueryFallsBackOnError(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCompleter{err: errors.New("upstream down")})

	reply, err := svc.Respond(context.Background(), "帮我看看简历怎么写")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(reply.Content, "关于简历撰写") {
		t.Errorf("Expected the local resume reply, got %q", reply.Content)
	}
}

func TestRespond_GeneralQueryWithoutCompleter(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	reply, err := svc.Respond(context.Background(), "随便聊聊")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Content != genericResponse {
		t.Errorf("Expected the generic local reply, got %q", reply.Content)
	}
}

func TestRespond_PersistsTranscript(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	if _, err := svc.Respond(context.Background(), "随便聊聊"); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if len(repo.messages) != 2 {
		t.Fatalf("Expected 2 transcript messages, got %d", len(repo.messages))
	}
	if repo.messages[0].Role != domain.RoleUser || repo.messages[1].Role != domain.RoleAI {
		t.Errorf("Expected user then ai message, got %s then %s",
			repo.messages[0].Role, repo.messages[1].Role)
	}
}
