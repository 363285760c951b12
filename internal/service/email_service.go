package service

import (
	"encoding/base64"
	"fmt"
	"learnova_backend/internal/config"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// EmailSender 对外邮件发送接口。发送失败由调用方记录日志，
// 不重试也不回滚触发它的主操作。
type EmailSender interface {
	SendCertificateEmail(toEmail, studentName, courseName, certificateNumber string, pdf []byte) error
}

// SendgridEmailService 通过 Sendgrid HTTP API 发送邮件
type SendgridEmailService struct {
	key  string
	from *sgmail.Email
}

func NewSendgridEmailService(cfg *config.EmailConfig) *SendgridEmailService {
	return &SendgridEmailService{
		key:  cfg.SendgridKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

func (s *SendgridEmailService) SendCertificateEmail(toEmail, studentName, courseName, certificateNumber string, pdf []byte) error {
	p := sgmail.NewPersonalization()
	p.Subject = fmt.Sprintf("恭喜完成课程《%s》", courseName)
	p.AddTos(sgmail.NewEmail(studentName, toEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)

	text := fmt.Sprintf("Hi %s, 你已完成课程《%s》，证书编号 %s，见附件。", studentName, courseName, certificateNumber)
	html := fmt.Sprintf(`
		<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>恭喜你，%s！</h2>
			<p>你已经完成课程 <strong>《%s》</strong> 的全部内容。</p>
			<p>结课证书见附件，证书编号：<code>%s</code>。</p>
			<p style="color:#888;font-size:12px;">此邮件由系统自动发送，请勿回复。</p>
		</div>`, studentName, courseName, certificateNumber)

	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", html),
	)

	m.AddAttachment(&sgmail.Attachment{
		Content:     base64.StdEncoding.EncodeToString(pdf),
		Type:        "application/pdf",
		Filename:    fmt.Sprintf("certificate-%s.pdf", certificateNumber),
		Disposition: "attachment",
	})

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
