package assistant

import (
	"fmt"
	"strings"
)

// topicResponse is one (keyword, reply) pair. Pairs are matched in order,
// first match wins.
type topicResponse struct {
	keyword string
	reply   string
}

// localResponses backs the assistant when the upstream completion call is
// unavailable.
var localResponses = []topicResponse{
	{"简历", "关于简历撰写，建议您：\n\n1. **突出重点**：将最相关的经历放在前面\n2. **量化成果**：用具体数字体现您的贡献\n3. **关键词优化**：包含岗位要求的技能关键词\n4. **格式清晰**：使用简洁的格式，便于阅读\n5. **定制化**：针对不同公司和岗位调整内容\n\n需要我帮您分析具体的简历内容吗？"},
	{"面试技巧", "面试成功的关键技巧：\n\n**准备阶段**\n• 深入研究目标公司和岗位\n• 准备常见问题的回答\n• 练习自我介绍和项目介绍\n\n**面试过程**\n• 保持自信和专业形象\n• 用STAR法则回答行为问题\n• 主动提问展现对公司的兴趣\n\n**收尾阶段**\n• 总结自己的优势\n• 询问下一步流程\n• 及时发送感谢邮件"},
	{"薪资谈判", "薪资谈判建议：\n\n1. **做好调研**：了解行业和地区薪资水平\n2. **展现价值**：强调您能为公司带来的价值\n3. **灵活谈判**：除了基本工资，考虑其他福利\n4. **时机把握**：在收到offer后再谈具体薪资\n5. **态度诚恳**：保持专业和合作的态度\n\n记住，薪资谈判是双向的，要找到双方都满意的平衡点。"},
	{"职业规划", "职业规划思路：\n\n**短期目标（1-2年）**\n• 快速适应工作环境\n• 掌握核心技能\n• 建立职场人脉\n\n**中期目标（3-5年）**\n• 成为某个领域的专家\n• 承担更多责任\n• 考虑纵向或横向发展\n\n**长期目标（5年以上）**\n• 明确自己的职业方向\n• 培养领导能力\n• 考虑创业或转行机会\n\n建议定期回顾和调整您的职业规划。"},
}

const genericResponse = "感谢您的提问！作为您的面试助手，我可以帮您：\n\n• 管理面试安排和时间\n• 生成针对性的面试题目\n• 提供面试技巧和建议\n• 协助进行面试复盘\n\n如果您有具体的面试相关问题，请随时告诉我。我会尽力为您提供专业的建议和帮助。"

// WelcomeMessage is shown once when the transcript is empty.
const WelcomeMessage = "您好！我是您的秋招面试助手。我可以帮您：\n\n• 添加和管理面试安排\n• 生成模拟面试题和答案\n• 总结真实面经和复盘分析\n• 回答秋招相关问题\n\n请告诉我您需要什么帮助？"

// LocalResponse answers a general question from the fixed topic table,
// falling back to a capability summary.
func LocalResponse(message string) string {
	for _, r := range localResponses {
		if strings.Contains(message, r.keyword) {
			return r.reply
		}
	}
	return genericResponse
}

// mockAnswerTemplates are canned reference answers for common question
// categories, matched against the question text in order.
var mockAnswerTemplates = []topicResponse{
	{"自我介绍", "我是一名充满热情的应届毕业生，主修[专业名称]。在校期间，我参与了多个项目，包括[具体项目]，在其中担任[角色]，积累了[相关技能]的经验。我的优势是[个人优势]，我选择贵公司是因为[选择原因]。我希望能在这个岗位上发挥我的专长，为公司创造价值的同时实现个人成长。"},
	{"项目经历", "在[项目名称]项目中，我担任[角色]，主要负责[具体职责]。项目的目标是[项目目标]，我们团队采用了[技术方案/方法]来解决问题。在实施过程中，我遇到了[具体挑战]，通过[解决方案]成功解决了这个问题。最终项目取得了[具体成果]，我从中学到了[收获]。"},
	{"优势", "我的主要优势包括：1）[技术优势]：具备扎实的专业基础和快速学习能力；2）[软技能优势]：良好的沟通协作能力和团队合作精神；3）[个人特质]：强烈的责任心和持续改进的态度。这些优势使我能够快速适应工作环境并为团队带来价值。"},
	{"为什么选择", "我选择贵公司主要基于：1）公司在行业中的领先地位和技术实力；2）良好的企业文化和发展前景；3）岗位与我的专业背景高度匹配；4）能够提供良好的学习和成长机会。"},
}

// GenerateMockAnswer produces a suggested answer for a practice question.
// The job description is accepted for future use but the canned templates do
// not consume it.
func GenerateMockAnswer(question, jobDescription string) string {
	_ = jobDescription
	for _, t := range mockAnswerTemplates {
		if strings.Contains(question, t.keyword) {
			return t.reply
		}
	}
	return fmt.Sprintf("针对\"%s\"这个问题，建议从以下角度回答：\n\n1. 结合具体实例进行说明\n2. 突出与岗位相关的技能和经验\n3. 展现个人的思考深度和独特见解\n4. 与公司文化和岗位要求建立连接\n\n请根据自己的实际情况完善答案内容。", question)
}

// GenerateReviewAnswer produces a retrospective analysis for a question the
// candidate was actually asked.
func GenerateReviewAnswer(question string) string {
	return fmt.Sprintf("【面试复盘分析】\n\n**问题：** \"%s\"\n\n**分析要点：**\n1. 这道题主要考察的核心能力和素质\n2. 面试官期望听到的关键信息\n3. 优秀回答应该包含的要素\n\n**改进建议：**\n1. 结构化回答，逻辑清晰\n2. 用具体案例支撑观点\n3. 展现深度思考和学习能力\n4. 注意表达的自信和专业度\n\n**下次优化：**\n建议针对此类问题准备一个回答框架，结合个人经历进行个性化调整。", question)
}
