package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/llm"
)

func newTestOutreach(replies map[string]string) (*OutreachService, *fakeCompleter, *fakeSender, *memEmailLogs) {
	completer := newFakeCompleter(replies)
	sender := &fakeSender{fail: map[string]bool{}}
	logs := &memEmailLogs{}
	svc := NewOutreachService(completer, sender, logs, testOutreachConfig, logrus.NewEntry(logrus.New()), nil)
	return svc, completer, sender, logs
}

func TestOutreachService_ExtractLinks(t *testing.T) {
	tests := map[string]struct {
		reply   string
		want    ExtractedLinks
		wantErr error
	}{
		"object with commentary": {
			reply: "Sure!\n{\"websites\":[\"acme.io\",\" \"],\"social_links\":[\"instagram.com/acme\"]}\nHope it helps",
			want:  ExtractedLinks{Websites: []string{"acme.io"}, SocialLinks: []string{"instagram.com/acme"}},
		},
		"empty lists": {
			reply:   `{"websites":[],"social_links":[]}`,
			wantErr: ErrNoLinks,
		},
		"no json": {
			reply:   "none",
			wantErr: ErrNoLinks,
		},
		"malformed json": {
			reply:   `{"websites": acme.io}`,
			wantErr: ErrNoLinks,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			svc, completer, _, _ := newTestOutreach(map[string]string{testLinkModel: tc.reply})
			got, err := svc.ExtractLinks(context.Background(), "Title", "Desc")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			req := completer.last[testLinkModel]
			assert.Equal(t, 500, req.MaxTokens)
			assert.InDelta(t, 0.4, req.Temperature, 1e-9)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
			assert.Contains(t, req.Messages[1].Content, "Title\n\nDesc")
		})
	}
}

func TestOutreachService_ExtractLinksCompletionError(t *testing.T) {
	svc, completer, _, _ := newTestOutreach(nil)
	completer.errs[testLinkModel] = errors.New("rate limited")

	_, err := svc.ExtractLinks(context.Background(), "t", "d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOutreachService_GenerateEmailTemplate(t *testing.T) {
	svc, completer, _, _ := newTestOutreach(map[string]string{
		testEmailModel: "Here it is\nSUBJECT: React developer\nBODY:\n<p>Hello</p>\n",
	})

	tpl := svc.GenerateEmailTemplate(context.Background(), "We need a React developer")
	assert.Equal(t, EmailTemplate{Subject: "React developer", Body: "<p>Hello</p>"}, tpl)
	assert.False(t, tpl.Blank())

	req := completer.last[testEmailModel]
	assert.Equal(t, 800, req.MaxTokens)
	assert.Contains(t, req.Messages[1].Content, "We need a React developer")
	assert.Contains(t, req.Messages[1].Content, "Jane Doe")
}

func TestOutreachService_GenerateTemplateFailureIsBlank(t *testing.T) {
	svc, completer, _, _ := newTestOutreach(nil)
	completer.errs[testEmailModel] = errors.New("timeout")

	assert.True(t, svc.GenerateFollowUp(context.Background(), "job").Blank())
	assert.True(t, svc.GenerateEmailTemplate(context.Background(), "job").Blank())
}

func TestEmailTemplate_Blank(t *testing.T) {
	assert.True(t, EmailTemplate{}.Blank())
	assert.True(t, EmailTemplate{Subject: "s", Body: "  "}.Blank())
	assert.True(t, EmailTemplate{Subject: "", Body: "b"}.Blank())
	assert.False(t, EmailTemplate{Subject: "s", Body: "b"}.Blank())
}

func TestOutreachService_GenerateDM(t *testing.T) {
	svc, completer, _, _ := newTestOutreach(map[string]string{testEmailModel: "MESSAGE: Hey! Loved your brand."})

	assert.Equal(t, "Hey! Loved your brand.", svc.GenerateDM(context.Background(), "job"))
	assert.Equal(t, 300, completer.last[testEmailModel].MaxTokens)

	completer.replies[testEmailModel] = "no marker here"
	assert.Equal(t, "", svc.GenerateDM(context.Background(), "job"))
}

func TestOutreachService_ExtractKeywords(t *testing.T) {
	svc, _, _, _ := newTestOutreach(map[string]string{
		testKeywordModel: "Acme Bakery\nShopify\n\nnone\nJohn Smith\nThis phrase has far too many words\nAnextremelylongbrandname\n",
	})

	assert.Equal(t, []string{"Acme Bakery", "John Smith"}, svc.ExtractKeywords(context.Background(), "text"))
}

func TestOutreachService_ExtractKeywordsFailure(t *testing.T) {
	svc, completer, _, _ := newTestOutreach(nil)
	completer.errs[testKeywordModel] = errors.New("down")

	assert.Equal(t, []string{}, svc.ExtractKeywords(context.Background(), "text"))
}

func TestOutreachService_SendApplication(t *testing.T) {
	svc, _, sender, logs := newTestOutreach(map[string]string{testEmailModel: goodTemplate})
	sender.fail["bad@acme.io"] = true

	results, err := svc.SendApplication(context.Background(), "job", []string{"HR@acme.io", "bad@acme.io", "not-an-email"}, "https://feed.example/jobs/9")
	require.NoError(t, err)

	assert.Equal(t, []dto.EmailResult{
		{Email: "hr@acme.io", Sent: true},
		{Email: "bad@acme.io", Sent: false},
		{Email: "not-an-email", Sent: false},
	}, results)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@example.com", sender.sent[0].From)
	assert.Equal(t, "Frontend help", sender.sent[0].Subject)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, "hr@acme.io", logs.logs[0].Email)
}

func TestOutreachService_SendApplicationValidation(t *testing.T) {
	svc, _, _, _ := newTestOutreach(map[string]string{testEmailModel: goodTemplate})

	_, err := svc.SendApplication(context.Background(), "", []string{"a@acme.io"}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SendApplication(context.Background(), "job", []string{" "}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOutreachService_SendApplicationBlankTemplate(t *testing.T) {
	svc, _, sender, _ := newTestOutreach(map[string]string{testEmailModel: "BODY: only body"})

	_, err := svc.SendApplication(context.Background(), "job", []string{"a@acme.io"}, "")
	assert.ErrorIs(t, err, ErrBlankTemplate)
	assert.Empty(t, sender.sent)
}
