package bot

import (
	"context"

	"dutybot/internal/profile"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
	"dutybot/pkg/tgui"
)

func (b *Bot) cmdStart(ctx context.Context, m *kit.Message) {
	u, known, err := b.users.Get(ctx, m.ChatID)
	if err != nil {
		b.log.Error("start lookup failed", logx.Int64("chat_id", m.ChatID), logx.Err(err))
		return
	}
	if !known {
		u = profile.User{
			ChatID:        m.ChatID,
			Username:      m.FromUsername,
			DisplayName:   m.FromName,
			Notifications: true,
			RegisteredAt:  b.now(),
		}
		// First contact: bind automatically when the username is on the
		// handle list.
		if name, ok := b.employeeByHandle(m.FromUsername); ok {
			u.Employee = name
			b.log.Info("auto-bound user",
				logx.Int64("chat_id", m.ChatID),
				logx.String("username", m.FromUsername),
				logx.String("employee", name))
		}
	}
	u.Username = m.FromUsername
	u.DisplayName = m.FromName
	u.LastActive = b.now()
	if err := b.users.Upsert(ctx, u); err != nil {
		b.log.Error("start upsert failed", logx.Int64("chat_id", m.ChatID), logx.Err(err))
		return
	}
	if !known && u.Employee != "" {
		if err := b.users.SetEmployee(ctx, m.ChatID, u.Employee); err != nil {
			b.log.Error("auto-bind persist failed", logx.Int64("chat_id", m.ChatID), logx.Err(err))
		}
	}

	firstName := m.FromName
	if u.Employee != "" {
		phone, _ := b.roster.Phone(u.Employee)
		if phone == "" {
			phone = "не указан"
		}
		b.send(ctx, m.ChatID, welcomeText(firstName, u.Employee, phone, ""), mainMenu(u.Admin))
		return
	}
	b.send(ctx, m.ChatID, welcomeText(firstName, "", "", m.FromUsername), employeePicker(b.roster.Names(), false))
}

func (b *Bot) handleCallback(ctx context.Context, cb *kit.Callback) {
	if err := b.sender.AnswerCallback(ctx, cb.ID, ""); err != nil {
		b.log.Debug("answer callback failed", logx.Err(err))
	}
	b.touch(ctx, cb.ChatID)

	action, payload := tgui.SplitData(cb.Data)
	if action == cbPickEmployee {
		b.pickEmployee(ctx, cb, payload)
		return
	}

	switch action {
	case cbFullSchedule:
		b.edit(ctx, cb, b.schedule.ScheduleText(b.now()), backMenu())
	case cbMyDuty:
		b.showMyDuty(ctx, cb)
	case cbInstructions:
		b.edit(ctx, cb, instructionsText, backMenu())
	case cbQuestions:
		b.edit(ctx, cb, questionsText, backMenu())
	case cbProtocol:
		b.sendProtocol(ctx, cb)
	case cbChangeProfile:
		b.edit(ctx, cb,
			"<b>👤 ИЗМЕНЕНИЕ ПРОФИЛЯ</b>\n\n"+
				"Выберите ваше ФИО из списка сотрудников.\n\n"+
				"<i>Текущий выбор будет заменен.</i>",
			employeePicker(b.roster.Names(), true))
	case cbBackToMain:
		b.backToMain(ctx, cb)
	default:
		b.handleAdminCallback(ctx, cb, action)
	}
}

func (b *Bot) pickEmployee(ctx context.Context, cb *kit.Callback, name string) {
	u, known, err := b.users.Get(ctx, cb.ChatID)
	if err != nil || !known {
		b.edit(ctx, cb, "Ошибка регистрации. Пожалуйста, начните снова командой /start", nil)
		return
	}
	if err := b.users.SetEmployee(ctx, cb.ChatID, name); err != nil {
		b.log.Error("bind failed", logx.Int64("chat_id", cb.ChatID), logx.Err(err))
		b.edit(ctx, cb, "Ошибка регистрации. Пожалуйста, начните снова командой /start", nil)
		return
	}
	phone, _ := b.roster.Phone(name)
	if phone == "" {
		phone = "не указан"
	}
	b.edit(ctx, cb, registeredText(name, phone), mainMenu(u.Admin))
}

func (b *Bot) showMyDuty(ctx context.Context, cb *kit.Callback) {
	u, known, err := b.users.Get(ctx, cb.ChatID)
	if err != nil || !known {
		b.edit(ctx, cb, "❌ Сначала зарегистрируйтесь /start", nil)
		return
	}
	if u.Employee == "" {
		b.edit(ctx, cb, "❌ Выберите сотрудника в меню", backMenu())
		return
	}
	now := b.now()
	shifts := b.schedule.UpcomingFor(u.Employee, now)
	b.edit(ctx, cb, myDutyText(u.Employee, shifts, now), backMenu())
}

func (b *Bot) backToMain(ctx context.Context, cb *kit.Callback) {
	u, _, err := b.users.Get(ctx, cb.ChatID)
	if err != nil {
		b.log.Error("menu lookup failed", logx.Int64("chat_id", cb.ChatID), logx.Err(err))
	}
	phone := ""
	if u.Employee != "" {
		phone, _ = b.roster.Phone(u.Employee)
		if phone == "" {
			phone = "не указан"
		}
	}
	b.edit(ctx, cb, mainMenuText(u.Employee, phone), mainMenu(u.Admin))
}

func (b *Bot) sendProtocol(ctx context.Context, cb *kit.Callback) {
	if !b.protocol.Exists() {
		b.edit(ctx, cb, "❌ Файл не найден", backMenu())
		return
	}
	doc := kit.Document{
		Path:    b.protocol.Path(),
		Name:    "Протокол разногласий.docx",
		Caption: "📄 Протокол разногласий",
	}
	opt := &kit.SendOptions{ParseMode: "HTML"}
	if _, err := b.sender.SendDocument(ctx, kit.ChatTarget{ChatID: cb.ChatID}, doc, opt); err != nil {
		b.log.Warn("protocol send failed", logx.Int64("chat_id", cb.ChatID), logx.Err(err))
		b.edit(ctx, cb, "❌ Ошибка отправки файла", backMenu())
		return
	}
	b.edit(ctx, cb, "✅ Файл отправлен", backMenu())
}
