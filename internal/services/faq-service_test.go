package services

import (
	"context"
	"strings"
	"testing"

	"github.com/yulclaims/claim_service/internal/dto"
)

func seedFaqs(t *testing.T, svc FaqService) {
	t.Helper()
	faqs := []dto.FaqRequest{
		{Question: "How much is the commission?", Answer: "We charge 15% on successful claims only.", Category: "fees", Order: 1},
		{Question: "How long does a claim take?", Answer: "Most claims resolve within 8 weeks.", Category: "process", Order: 2},
	}
	for _, f := range faqs {
		if _, err := svc.CreateFaq(f); err != nil {
			t.Fatalf("seed faq: %v", err)
		}
	}
}

func TestListFaqs(t *testing.T) {
	repo := newFakeFaqRepo()
	svc := NewFaqService(repo, &fakeAssessor{})
	seedFaqs(t, svc)

	t.Run("all active", func(t *testing.T) {
		faqs, err := svc.ListFaqs("")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(faqs) != 2 {
			t.Fatalf("got %d faqs, want 2", len(faqs))
		}
	})

	t.Run("substring filter", func(t *testing.T) {
		faqs, err := svc.ListFaqs("commission")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(faqs) != 1 || !strings.Contains(faqs[0].Question, "commission") {
			t.Fatalf("got %v", faqs)
		}
	})

	t.Run("soft-deleted faqs disappear", func(t *testing.T) {
		faqs, _ := svc.ListFaqs("")
		if err := svc.DeleteFaq(faqs[0].ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		remaining, _ := svc.ListFaqs("")
		if len(remaining) != 1 {
			t.Fatalf("got %d faqs after delete, want 1", len(remaining))
		}
	})
}

func TestVoiceSearch(t *testing.T) {
	t.Run("faq match wins", func(t *testing.T) {
		repo := newFakeFaqRepo()
		assessor := &fakeAssessor{chatMessage: "bot answer"}
		svc := NewFaqService(repo, assessor)
		seedFaqs(t, svc)

		resp, err := svc.VoiceSearch(context.Background(), "commission")
		if err != nil {
			t.Fatalf("voice search: %v", err)
		}
		if !strings.Contains(resp.Message, "15%") {
			t.Fatalf("expected the faq answer, got %q", resp.Message)
		}
	})

	t.Run("falls back to chatbot", func(t *testing.T) {
		repo := newFakeFaqRepo()
		assessor := &fakeAssessor{chatMessage: "bot answer"}
		svc := NewFaqService(repo, assessor)
		seedFaqs(t, svc)

		resp, err := svc.VoiceSearch(context.Background(), "something entirely unrelated")
		if err != nil {
			t.Fatalf("voice search: %v", err)
		}
		if resp.Message != "bot answer" {
			t.Fatalf("expected chatbot fallback, got %q", resp.Message)
		}
	})

	t.Run("empty transcript", func(t *testing.T) {
		svc := NewFaqService(newFakeFaqRepo(), &fakeAssessor{})
		if _, err := svc.VoiceSearch(context.Background(), "  "); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUpdateFaq(t *testing.T) {
	repo := newFakeFaqRepo()
	svc := NewFaqService(repo, &fakeAssessor{})
	seedFaqs(t, svc)

	t.Run("partial update", func(t *testing.T) {
		updated, err := svc.UpdateFaq(1, dto.FaqRequest{Answer: "We charge 15%, nothing upfront."})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Question != "How much is the commission?" {
			t.Errorf("question changed unexpectedly: %q", updated.Question)
		}
		if !strings.Contains(updated.Answer, "nothing upfront") {
			t.Errorf("answer not updated: %q", updated.Answer)
		}
	})

	t.Run("missing faq", func(t *testing.T) {
		if _, err := svc.UpdateFaq(404, dto.FaqRequest{Answer: "x"}); err == nil {
			t.Fatal("expected not-found error")
		}
	})
}
