package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
	"google.golang.org/genai"
)

// Chat constants
const (
	// MaxHistory is how many prior turns are sent with a message.
	MaxHistory = 10
	// MaxMessageLength bounds a single user message in characters.
	MaxMessageLength = 2000

	Greeting      = "أهلاً بك في تمور العمارنة! 🌴 أنا \"تمر حنه\"، كيف أقدر أساعدك النهاردة؟"
	FallbackReply = "أعتذر، حدثت مشكلة تقنية بسيطة. ممكن تحاول مرة تانية؟ 🌴"
)

// Chat validation errors
var (
	ErrMessageEmpty   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message exceeds maximum length")
)

// Role is the author of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is a user message with the conversation so far.
type ChatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

// Validate checks the user message.
func (r ChatRequest) Validate() error {
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		return ErrMessageEmpty
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// StoreSnapshot provides the catalog data embedded in the chat persona.
type StoreSnapshot interface {
	Snapshot() ([]catalog.Product, catalog.Settings)
}

type productInfo struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Desc  string `json:"desc"`
}

type discountInfo struct {
	Active     bool    `json:"active"`
	Percentage float64 `json:"percentage"`
}

// SystemPrompt renders the persona instruction with live store data.
func SystemPrompt(products []catalog.Product, settings catalog.Settings) string {
	infos := make([]productInfo, len(products))
	for i, p := range products {
		infos[i] = productInfo{Name: p.Name, Price: p.Price, Desc: p.Description}
	}
	productsJSON, _ := json.Marshal(infos)
	ratesJSON, _ := json.Marshal(settings.DeliveryRates)
	discountJSON, _ := json.Marshal(discountInfo{
		Active:     settings.IsDiscountActive,
		Percentage: settings.DiscountPercentage,
	})

	var b strings.Builder
	b.WriteString("أنتِ \"تمر حنه\"، المساعدة الذكية الودودة لموقع \"تمور العمارنة\".\n\n")
	b.WriteString("معلومات عن الشركة:\n")
	b.WriteString("- الاسم: تمور العمارنة.\n")
	b.WriteString("- الشعار: \"تمرة تستاهل تدخل دارك\".\n")
	b.WriteString("- الوصف: شركة متخصصة في بيع أجود أنواع التمور العربية الفاخرة (محاصيل القصيم والمدينة).\n")
	b.WriteString("- العنوان: المقطم - الهضبة الوسطى - القاهرة.\n")
	b.WriteString("- الهاتف/واتساب: 01001933502 (يمكنك اقتراح التواصل عبر واتساب للطلبات الخاصة).\n\n")
	fmt.Fprintf(&b, "بيانات المنتجات والأسعار الحالية (بالجنيه المصري):\n%s\n\n", productsJSON)
	fmt.Fprintf(&b, "أسعار التوصيل الحالية:\n%s\n\n", ratesJSON)
	fmt.Fprintf(&b, "سياسة الخصم الحالية:\n%s\n\n", discountJSON)
	b.WriteString("قواعد الرد:\n")
	b.WriteString("1. تحدثي باللهجة المصرية الودودة والمحترمة (أو العربية الفصحى البسيطة).\n")
	b.WriteString("2. وظيفتك مساعدة الزوار في اختيار التمور، معرفة الأسعار، وتفاصيل التوصيل.\n")
	b.WriteString("3. إذا سأل العميل عن كيفية الطلب، أخبريه أن يضيف المنتجات للسلة ويملأ بياناته.\n")
	b.WriteString("4. كوني مختصرة ومفيدة.\n")
	b.WriteString("5. استخدمي الإيموجيز المناسبة (🌴، ✨، ❤️) لإضفاء جو لطيف.\n")
	b.WriteString("6. اعتمدي فقط على البيانات المزودة لكِ أعلاه.\n")
	return b.String()
}

// TrimHistory keeps the last MaxHistory turns.
func TrimHistory(history []Turn) []Turn {
	if len(history) <= MaxHistory {
		return history
	}
	return history[len(history)-MaxHistory:]
}

func chatContents(history []Turn, message string) []*genai.Content {
	history = TrimHistory(history)
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

// Chat answers message as the store persona. It never fails: on any
// upstream problem the canned FallbackReply is returned.
func (s *Service) Chat(ctx context.Context, req ChatRequest) string {
	if s.generator == nil {
		s.logger.Warn("Chat requested but model is not configured")
		return FallbackReply
	}

	products, settings := s.store.Snapshot()
	resp, err := s.generator.GenerateContent(ctx, s.model,
		chatContents(req.History, strings.TrimSpace(req.Message)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt(products, settings), genai.RoleUser),
		})
	if err != nil {
		s.logger.Error("Chat generation failed", "error", err)
		return FallbackReply
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		s.logger.Warn("Chat generation returned no text")
		return FallbackReply
	}
	return text
}
