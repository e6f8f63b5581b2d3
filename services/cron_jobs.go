package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"minilibrary_go/config"
	"minilibrary_go/middleware"
	"minilibrary_go/models"
)

// dueReminderRow 到期提醒查询结果行
type dueReminderRow struct {
	LoanID    string
	DueDate   time.Time
	UserEmail string
	BookTitle string
}

// CronJobs 定时任务调度器
// 每天早上8点发送到期提醒，9点发送新书通知
type CronJobs struct {
	mailer Mailer
	cron   *cron.Cron
	logger *zap.Logger
}

// NewCronJobs 创建定时任务调度器
func NewCronJobs(mailer Mailer) *CronJobs {
	return &CronJobs{
		mailer: mailer,
		cron:   cron.New(),
		logger: middleware.GetLogger(),
	}
}

// Start 注册并启动所有定时任务
func (cj *CronJobs) Start() error {
	// 每天早上8点：到期提醒
	if _, err := cj.cron.AddFunc("0 8 * * *", cj.RunDueDateReminders); err != nil {
		return fmt.Errorf("failed to schedule due date reminders: %w", err)
	}

	// 每天早上9点：新书通知
	if _, err := cj.cron.AddFunc("0 9 * * *", cj.RunNewBookNotifications); err != nil {
		return fmt.Errorf("failed to schedule new book notifications: %w", err)
	}

	cj.cron.Start()
	cj.logger.Info("⏰ 定时任务已启动")

	return nil
}

// Stop 停止定时任务调度器
func (cj *CronJobs) Stop() {
	cj.cron.Stop()
}

// RunDueDateReminders 扫描3天内到期的未归还借阅并逐条发送提醒
// 单条失败只记录日志，不中断其余提醒
func (cj *CronJobs) RunDueDateReminders() {
	cutoff := time.Now().Add(72 * time.Hour)

	var rows []dueReminderRow
	err := config.DB.Model(&models.Loan{}).
		Select("loans.id AS loan_id, loans.due_date, users.email AS user_email, books.title AS book_title").
		Joins("LEFT JOIN users ON users.id = loans.user_id").
		Joins("LEFT JOIN books ON books.id = loans.book_id").
		Where("loans.due_date <= ? AND loans.returned = ?", cutoff, false).
		Scan(&rows).Error
	if err != nil {
		cj.logger.Error("到期提醒查询失败", zap.Error(err))
		return
	}

	sent := 0
	for _, row := range rows {
		if row.UserEmail == "" {
			continue
		}

		dueDate := row.DueDate.Format("2006-01-02")
		if err := SendDueDateReminder(cj.mailer, row.UserEmail, row.BookTitle, dueDate); err != nil {
			cj.logger.Error("到期提醒邮件发送失败",
				zap.String("loan_id", row.LoanID),
				zap.String("email", row.UserEmail),
				zap.Error(err))
			continue
		}
		sent++
	}

	cj.logger.Info("到期提醒任务完成",
		zap.Int("matched", len(rows)),
		zap.Int("sent", sent))
}

// RunNewBookNotifications 汇总过去24小时新增图书并通知全部用户
// 没有新书时直接跳过
func (cj *CronJobs) RunNewBookNotifications() {
	since := time.Now().Add(-24 * time.Hour)

	var books []models.Book
	err := config.DB.
		Where("created_at >= ? AND deleted = ?", since, false).
		Find(&books).Error
	if err != nil {
		cj.logger.Error("新书查询失败", zap.Error(err))
		return
	}

	if len(books) == 0 {
		return
	}

	// 拼接新书列表
	titleList := ""
	for _, book := range books {
		titleList += fmt.Sprintf("- %s\n", book.Title)
	}

	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		cj.logger.Error("用户查询失败", zap.Error(err))
		return
	}

	sent := 0
	for _, user := range users {
		if user.Email == "" {
			continue
		}

		if err := SendNewBookNotification(cj.mailer, user.Email, titleList); err != nil {
			cj.logger.Error("新书通知邮件发送失败",
				zap.String("email", user.Email),
				zap.Error(err))
			continue
		}
		sent++
	}

	cj.logger.Info("新书通知任务完成",
		zap.Int("new_books", len(books)),
		zap.Int("sent", sent))
}
