package services

import (
	"fmt"
	"net/mail"
	"net/smtp"
	"time"

	"minilibrary_go/config"
)

// Mailer 邮件发送接口，定时任务和注册流程依赖该接口
type Mailer interface {
	Send(to, subject, text, html string) error
}

// QueueMailer 在 Mailer 之上支持队列异步投递（带退避重试）
// 非关键路径的邮件（注册欢迎邮件）优先走队列
type QueueMailer interface {
	Mailer
	Queue(task *EmailTask)
}

// EmailTask 邮件发送任务
type EmailTask struct {
	ToEmail  string
	Subject  string
	Body     string
	HTMLBody string
	Retries  int
}

// EmailService 基于SMTP的邮件服务
// 同步发送走 Send，Queue 投递的任务由worker池异步发送并重试
type EmailService struct {
	cfg          *config.SMTPConfig
	emailQueue   chan *EmailTask
	emailWorkers int
}

// NewEmailService 创建邮件服务实例并启动发送worker池
func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	es := &EmailService{
		cfg:          cfg,
		emailQueue:   make(chan *EmailTask, 1000),
		emailWorkers: 5,
	}

	es.startEmailWorkers()

	return es
}

// Send 同步发送邮件
// 未配置SMTP时直接返回成功（测试环境）
func (es *EmailService) Send(to, subject, text, html string) error {
	if es.cfg.Host == "" || es.cfg.User == "" {
		return nil
	}

	from := mail.Address{Name: es.cfg.FromName, Address: es.cfg.FromEmail}
	toAddr := mail.Address{Address: to}

	// 设置邮件头
	contentType := "text/plain; charset=UTF-8"
	body := text
	if html != "" {
		contentType = "text/html; charset=UTF-8"
		body = html
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: %s\r\n\r\n%s",
		from.String(), toAddr.String(), subject, contentType, body)

	// 连接SMTP服务器并发送
	smtpServer := fmt.Sprintf("%s:%d", es.cfg.Host, es.cfg.Port)
	smtpAuth := smtp.PlainAuth("", es.cfg.User, es.cfg.Password, es.cfg.Host)

	if err := smtp.SendMail(smtpServer, smtpAuth, es.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// Queue 将邮件任务加入队列（队列满时丢弃，不阻塞调用方）
func (es *EmailService) Queue(task *EmailTask) {
	select {
	case es.emailQueue <- task:
	default:
	}
}

// startEmailWorkers 启动邮件发送worker池
func (es *EmailService) startEmailWorkers() {
	for i := 0; i < es.emailWorkers; i++ {
		go es.emailWorker()
	}
}

// emailWorker 邮件发送worker，失败后退避重试，最多3次
func (es *EmailService) emailWorker() {
	for task := range es.emailQueue {
		err := es.Send(task.ToEmail, task.Subject, task.Body, task.HTMLBody)
		if err != nil {
			task.Retries++
			if task.Retries < 3 {
				time.Sleep(time.Second * time.Duration(task.Retries))
				es.Queue(task)
			}
		}
	}
}

// SendDueDateReminder 发送到期提醒邮件
func SendDueDateReminder(m Mailer, to, bookTitle, dueDate string) error {
	subject := "Reminder: Upcoming Due Date for Borrowed Book"
	text := fmt.Sprintf("Dear User,\n\nThis is a reminder that your borrowed book %q is due on %s. "+
		"Please make sure to return it on time.\n\nThank you,\nLibrary Team", bookTitle, dueDate)
	html := fmt.Sprintf("<p>Dear User,</p><p>This is a reminder that your borrowed book \"<strong>%s</strong>\" "+
		"is due on <strong>%s</strong>. Please make sure to return it on time.</p>"+
		"<p>Thank you,<br>Library Team</p>", bookTitle, dueDate)

	return m.Send(to, subject, text, html)
}

// SendNewBookNotification 发送新书上架通知邮件
func SendNewBookNotification(m Mailer, to, bookTitleList string) error {
	subject := "New Books Available"
	text := fmt.Sprintf("Hello,\n\nThe following new books have been added:\n%s\n\n"+
		"Check them out in the library!\n\nBest regards,\nLibrary Team", bookTitleList)
	html := fmt.Sprintf("<p>Hello,</p><p>The following new books have been added:</p><pre>%s</pre>"+
		"<p>Check them out in the library!</p><p>Best regards,<br>Library Team</p>", bookTitleList)

	return m.Send(to, subject, text, html)
}
