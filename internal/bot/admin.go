package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dutybot/internal/duty"
	"dutybot/internal/profile"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
	"dutybot/pkg/tgui"
)

func (b *Bot) cmdAdminLogin(ctx context.Context, m *kit.Message, args []string) {
	if len(args) != 2 {
		b.send(ctx, m.ChatID, loginUsageText, nil)
		return
	}
	if args[0] != b.cfg.AdminLogin || args[1] != b.cfg.AdminPassword {
		b.log.Warn("admin login rejected", logx.Int64("chat_id", m.ChatID))
		b.send(ctx, m.ChatID, loginFailText, nil)
		return
	}

	if _, known, err := b.users.Get(ctx, m.ChatID); err == nil && !known {
		_ = b.users.Upsert(ctx, profile.User{
			ChatID:        m.ChatID,
			Username:      m.FromUsername,
			DisplayName:   m.FromName,
			Notifications: true,
			RegisteredAt:  b.now(),
		})
	}
	if err := b.users.SetAdmin(ctx, m.ChatID, true); err != nil {
		b.log.Error("grant admin failed", logx.Int64("chat_id", m.ChatID), logx.Err(err))
		return
	}
	b.sessions[m.ChatID] = b.now()
	b.log.Info("admin logged in", logx.Int64("chat_id", m.ChatID))
	b.send(ctx, m.ChatID, loginOKText, adminMenu())
}

func (b *Bot) adminLogout(ctx context.Context, cb *kit.Callback) {
	delete(b.sessions, cb.ChatID)
	delete(b.pending, cb.ChatID)
	if err := b.users.SetAdmin(ctx, cb.ChatID, false); err != nil {
		b.log.Error("revoke admin failed", logx.Int64("chat_id", cb.ChatID), logx.Err(err))
	}
	b.log.Info("admin logged out", logx.Int64("chat_id", cb.ChatID))
	b.edit(ctx, cb, logoutText, mainMenu(false))
}

func (b *Bot) handleAdminCallback(ctx context.Context, cb *kit.Callback, action string) {
	if !b.isAdmin(ctx, cb.ChatID) {
		b.edit(ctx, cb, accessDeniedText, nil)
		return
	}
	// Navigating anywhere cancels a half-finished mutation prompt.
	delete(b.pending, cb.ChatID)

	switch action {
	case cbAdminPanel:
		b.edit(ctx, cb, adminPanelText, adminMenu())
	case cbAdminLogout:
		b.adminLogout(ctx, cb)
	case cbAdminSchedule, cbAdminRefresh:
		b.edit(ctx, cb, adminScheduleText, scheduleAdminMenu())
	case cbAdminEmployees:
		b.edit(ctx, cb, adminEmployeesText, employeesAdminMenu())
	case cbAdminFiles:
		b.edit(ctx, cb, b.filesPanelText(), filesAdminMenu())
	case cbAdminStats:
		b.edit(ctx, cb, b.statsText(ctx), statsMenu())
	case cbAdminAddShift:
		b.pending[cb.ChatID] = pendingAddShift
		b.edit(ctx, cb, addShiftPromptText, cancelMenu(cbAdminSchedule))
	case cbAdminDropShift:
		b.pending[cb.ChatID] = pendingRemoveShift
		b.edit(ctx, cb, removeShiftPromptText(b.schedule.ScheduleText(b.now())), cancelMenu(cbAdminSchedule))
	case cbAdminAddEmp:
		b.pending[cb.ChatID] = pendingAddEmployee
		b.edit(ctx, cb, addEmployeePromptText, cancelMenu(cbAdminEmployees))
	case cbAdminDropEmp:
		b.pending[cb.ChatID] = pendingRemoveEmployee
		b.edit(ctx, cb, removeEmployeePromptText(b.roster.Names()), cancelMenu(cbAdminEmployees))
	case cbAdminEditPhone:
		b.pending[cb.ChatID] = pendingEditPhone
		b.edit(ctx, cb, editPhonePromptText(b.roster.Names()), cancelMenu(cbAdminEmployees))
	case cbAdminListEmps:
		b.edit(ctx, cb, b.employeeListText(), tgui.NewInline().
			Row(tgui.Btn("➕ Добавить сотрудника", cbAdminAddEmp)).
			Row(tgui.Btn("📞 Изменить телефон", cbAdminEditPhone)).
			Row(tgui.Btn("🔙 Назад", cbAdminEmployees)).
			Markup())
	case cbAdminUploadDoc:
		b.edit(ctx, cb, uploadProtocolText, tgui.NewInline().
			Row(tgui.Btn("🔙 Назад", cbAdminFiles)).
			Row(tgui.Btn("📄 Проверить файл", cbAdminCheckDoc)).
			Markup())
	case cbAdminPinDoc:
		b.adminPinPrompt(ctx, cb)
	case cbAdminDeleteDoc:
		b.adminDeleteProtocol(ctx, cb)
	case cbAdminCheckDoc:
		b.adminCheckProtocol(ctx, cb)
	default:
		b.log.Debug("unknown callback", logx.String("action", action), logx.Int64("chat_id", cb.ChatID))
	}
}

// --- structured-text mutations ---

func (b *Bot) adminAddShift(ctx context.Context, chatID int64, text string) {
	cmd, err := ParseShiftCommand(text)
	if err != nil {
		b.send(ctx, chatID,
			"❌ <b>НЕВЕРНЫЙ ФОРМАТ</b>\n\nИспользуйте формат:\n<code>дата;сотрудники;телефоны;пара</code>", nil)
		return
	}

	err = b.schedule.Add(cmd.DateText, cmd.Assignees, cmd.Phones, cmd.Paired, b.now())
	switch {
	case err == nil:
	case errors.Is(err, duty.ErrFieldMismatch):
		b.send(ctx, chatID, "❌ <b>ОШИБКА</b>\n\nКоличество сотрудников и телефонов не совпадает.", nil)
		return
	case errors.Is(err, duty.ErrPastDate):
		b.send(ctx, chatID, "❌ <b>ОШИБКА ДОБАВЛЕНИЯ</b>\n\nДата должна быть в будущем", nil)
		return
	case errors.Is(err, duty.ErrBadDate):
		b.send(ctx, chatID,
			"❌ <b>ОШИБКА ДОБАВЛЕНИЯ</b>\n\nНеверная дата. Используйте формат <code>дд.мм.ггггг.</code>", nil)
		return
	default:
		b.send(ctx, chatID, fmt.Sprintf("❌ <b>ОШИБКА:</b> %s\n\nПроверьте правильность данных.", tgui.Esc(err.Error())), nil)
		return
	}

	pair := "Нет"
	if cmd.Paired {
		pair = "Да"
	}
	b.send(ctx, chatID, fmt.Sprintf(
		"✅ <b>ДЕЖУРСТВО ДОБАВЛЕНО</b>\n\n"+
			"📅 Дата: %s\n"+
			"👥 Сотрудники: %s\n"+
			"📞 Телефоны: %s\n"+
			"👫 Пара: %s\n\n"+
			"<i>График успешно обновлен.</i>",
		tgui.Esc(cmd.DateText),
		tgui.Esc(strings.Join(cmd.Assignees, ", ")),
		tgui.Esc(strings.Join(cmd.Phones, ", ")),
		pair), nil)
}

func (b *Bot) adminRemoveShift(ctx context.Context, chatID int64, text string) {
	dateText := strings.TrimSpace(text)
	if b.schedule.Remove(dateText) {
		b.send(ctx, chatID, fmt.Sprintf(
			"✅ <b>ДЕЖУРСТВО УДАЛЕНО</b>\n\n📅 Дата: %s\n\n<i>График успешно обновлен.</i>",
			tgui.Esc(dateText)), nil)
		return
	}
	b.send(ctx, chatID, fmt.Sprintf(
		"❌ <b>ДЕЖУРСТВО НЕ НАЙДЕНО</b>\n\nДата: %s\n\nПроверьте правильность даты.",
		tgui.Esc(dateText)), nil)
}

func (b *Bot) adminAddEmployee(ctx context.Context, chatID int64, text string) {
	cmd, err := ParseEmployeeCommand(text)
	if err != nil {
		b.send(ctx, chatID,
			"❌ <b>НЕВЕРНЫЙ ФОРМАТ</b>\n\nИспользуйте формат:\n<code>ФИО;телефон;telegram_username</code>", nil)
		return
	}
	if !b.roster.Add(cmd.Name, cmd.Phone) {
		b.send(ctx, chatID, fmt.Sprintf(
			"❌ <b>СОТРУДНИК УЖЕ СУЩЕСТВУЕТ</b>\n\nИмя: %s\n\nИспользуйте другое ФИО.",
			tgui.Esc(cmd.Name)), nil)
		return
	}
	handleInfo := "не указан"
	if cmd.Handle != "" {
		b.handles[cmd.Handle] = cmd.Name
		handleInfo = cmd.Handle
	}
	b.send(ctx, chatID, fmt.Sprintf(
		"✅ <b>СОТРУДНИК ДОБАВЛЕН</b>\n\n"+
			"👤 ФИО: %s\n"+
			"📞 Телефон: %s\n"+
			"📱 Telegram: %s\n\n"+
			"<i>Сотрудник добавлен в систему.</i>",
		tgui.Esc(cmd.Name), tgui.Esc(cmd.Phone), tgui.Esc(handleInfo)), nil)
}

func (b *Bot) adminRemoveEmployee(ctx context.Context, chatID int64, text string) {
	name := strings.TrimSpace(text)
	if !b.roster.Remove(name) {
		b.send(ctx, chatID, fmt.Sprintf(
			"❌ <b>СОТРУДНИК НЕ НАЙДЕН</b>\n\nИмя: %s\n\nПроверьте правильность ФИО.",
			tgui.Esc(name)), nil)
		return
	}
	var dropped []string
	for handle, emp := range b.handles {
		if emp == name {
			dropped = append(dropped, handle)
			delete(b.handles, handle)
		}
	}
	handleInfo := ""
	if len(dropped) > 0 {
		handleInfo = "\n📱 Telegram: " + string(tgui.Esc(strings.Join(dropped, ", ")))
	}
	b.send(ctx, chatID, fmt.Sprintf(
		"✅ <b>СОТРУДНИК УДАЛЕН</b>\n\n👤 ФИО: %s%s\n\n<i>Сотрудник удален из системы.</i>",
		tgui.Esc(name), handleInfo), nil)
}

func (b *Bot) adminEditPhone(ctx context.Context, chatID int64, text string) {
	name, phone, err := ParsePhoneCommand(text)
	if err != nil {
		b.send(ctx, chatID,
			"❌ <b>НЕВЕРНЫЙ ФОРМАТ</b>\n\nИспользуйте формат:\n<code>ФИО;новый телефон</code>", nil)
		return
	}
	if !b.roster.SetPhone(name, phone) {
		b.send(ctx, chatID, fmt.Sprintf(
			"❌ <b>СОТРУДНИК НЕ НАЙДЕН</b>\n\nИмя: %s\n\nПроверьте правильность ФИО.",
			tgui.Esc(name)), nil)
		return
	}
	b.send(ctx, chatID, fmt.Sprintf(
		"✅ <b>ТЕЛЕФОН ОБНОВЛЕН</b>\n\n"+
			"👤 Сотрудник: %s\n"+
			"📞 Новый телефон: %s\n\n"+
			"<i>Телефон успешно обновлен.</i>",
		tgui.Esc(name), tgui.Esc(phone)), nil)
}

// --- protocol file management ---

func (b *Bot) handleDocument(ctx context.Context, m *kit.Message) {
	if !b.isAdmin(ctx, m.ChatID) {
		b.send(ctx, m.ChatID, infoText, nil)
		return
	}

	caption := strings.ToLower(strings.TrimSpace(m.Caption))
	switch caption {
	case "протокол", "protocol":
		b.saveProtocol(ctx, m)
	case "закрепить", "pin", "прикрепить":
		b.pinProtocol(ctx, m)
	}
}

func (b *Bot) saveProtocol(ctx context.Context, m *kit.Message) {
	if !strings.HasSuffix(strings.ToLower(m.DocName), ".docx") {
		b.send(ctx, m.ChatID, "❌ <b>НЕВЕРНЫЙ ФОРМАТ ФАЙЛА</b>\n\nПоддерживаются только файлы .docx", nil)
		return
	}
	if err := b.sender.DownloadDocument(ctx, m.DocFileID, b.protocol.Path()); err != nil {
		b.log.Error("protocol download failed", logx.Err(err))
		b.send(ctx, m.ChatID, fmt.Sprintf("❌ <b>ОШИБКА ЗАГРУЗКИ:</b> %s", tgui.Esc(err.Error())), nil)
		return
	}
	b.log.Info("protocol uploaded", logx.String("name", m.DocName), logx.Int64("size", m.DocSize))
	b.send(ctx, m.ChatID, fmt.Sprintf(
		"✅ <b>ФАЙЛ ПРОТОКОЛА ЗАГРУЖЕН</b>\n\n"+
			"📄 Имя файла: %s\n"+
			"📁 Размер: %.1f КБ\n\n"+
			"<i>Файл успешно сохранен и доступен для скачивания.</i>",
		tgui.Esc(m.DocName), float64(m.DocSize)/1024), nil)
}

func (b *Bot) pinProtocol(ctx context.Context, m *kit.Message) {
	if !strings.HasSuffix(strings.ToLower(m.DocName), ".docx") {
		b.send(ctx, m.ChatID, "❌ <b>НЕВЕРНЫЙ ФОРМАТ ФАЙЛА</b>\n\nПоддерживаются только файлы .docx", nil)
		return
	}
	b.protocol.SetAttachedID(m.DocFileID)

	doc := kit.Document{FileID: m.DocFileID, Caption: protocolPinnedCaption}
	ref, err := b.sender.SendDocument(ctx, kit.ChatTarget{ChatID: m.ChatID}, doc, &kit.SendOptions{ParseMode: "HTML"})
	if err != nil {
		b.send(ctx, m.ChatID, fmt.Sprintf("❌ <b>ОШИБКА ПРИКРЕПЛЕНИЯ:</b> %s", tgui.Esc(err.Error())), nil)
		return
	}
	if err := b.sender.Pin(ctx, ref); err != nil {
		b.log.Warn("pin failed", logx.Err(err))
		b.send(ctx, m.ChatID, fmt.Sprintf("❌ <b>ОШИБКА ПРИКРЕПЛЕНИЯ:</b> %s", tgui.Esc(err.Error())), nil)
		return
	}
	b.send(ctx, m.ChatID, fmt.Sprintf(
		"✅ <b>ФАЙЛ ПРОТОКОЛА ПРИКРЕПЛЕН</b>\n\n"+
			"📄 Имя файла: %s\n"+
			"📎 ID файла: %s\n\n"+
			"<i>Файл закреплен в чате и доступен для скачивания.</i>",
		tgui.Esc(m.DocName), tgui.Esc(m.DocFileID)), nil)
}

func (b *Bot) adminPinPrompt(ctx context.Context, cb *kit.Callback) {
	if !b.protocol.Exists() {
		b.edit(ctx, cb,
			"❌ <b>ФАЙЛ НЕ НАЙДЕН</b>\n\nСначала загрузите файл протокола.\nИспользуйте кнопку 'Загрузить протокол'.",
			tgui.NewInline().
				Row(tgui.Btn("📤 Загрузить протокол", cbAdminUploadDoc)).
				Row(tgui.Btn("🔙 Назад", cbAdminFiles)).
				Markup())
		return
	}
	b.edit(ctx, cb, pinProtocolText, tgui.NewInline().Row(tgui.Btn("🔙 Назад", cbAdminFiles)).Markup())
}

func (b *Bot) adminDeleteProtocol(ctx context.Context, cb *kit.Callback) {
	var text string
	if b.protocol.Exists() {
		if err := b.protocol.Delete(); err != nil {
			text = fmt.Sprintf("❌ <b>ОШИБКА УДАЛЕНИЯ:</b> %s", tgui.Esc(err.Error()))
		} else {
			b.log.Info("protocol deleted")
			text = "🗑 <b>ФАЙЛ ПРОТОКОЛА УДАЛЕН</b>\n\n" +
				"Файл протокола был успешно удален.\n\n" +
				"<i>Пользователи больше не смогут скачать протокол.</i>"
		}
	} else {
		text = "ℹ️ <b>ФАЙЛ НЕ НАЙДЕН</b>\n\nФайл протокола уже отсутствует."
	}
	b.edit(ctx, cb, text, tgui.NewInline().
		Row(tgui.Btn("🔙 Назад", cbAdminFiles)).
		Row(tgui.Btn("📄 Проверить файл", cbAdminCheckDoc)).
		Markup())
}

func (b *Bot) adminCheckProtocol(ctx context.Context, cb *kit.Callback) {
	var text string
	if b.protocol.Exists() {
		attached := "Нет"
		if b.protocol.AttachedID() != "" {
			attached = "Да"
		}
		text = fmt.Sprintf(
			"✅ <b>ФАЙЛ ПРОТОКОЛА НАЙДЕН</b>\n\n"+
				"📄 <b>Имя файла:</b> %s\n"+
				"📁 <b>Размер:</b> %.2f МБ\n"+
				"📍 <b>Путь:</b> %s\n"+
				"📎 <b>Прикреплен:</b> %s\n\n"+
				"<i>Файл доступен для скачивания пользователями.</i>",
			tgui.Esc(b.protocol.FileName()),
			float64(b.protocol.Size())/(1024*1024),
			tgui.Esc(b.protocol.Path()),
			attached)
	} else {
		text = fmt.Sprintf(
			"❌ <b>ФАЙЛ ПРОТОКОЛА НЕ НАЙДЕН</b>\n\n"+
				"<i>Путь:</i> %s\n\n"+
				"<b>Что делать:</b>\n"+
				"1. Загрузите файл протокола\n"+
				"2. Используйте кнопку 'Загрузить протокол'",
			tgui.Esc(b.protocol.Path()))
	}
	b.edit(ctx, cb, text, tgui.NewInline().
		Row(tgui.Btn("🔙 Назад", cbAdminFiles)).
		Row(tgui.Btn("📤 Загрузить протокол", cbAdminUploadDoc)).
		Markup())
}

func (b *Bot) filesPanelText() string {
	status := "❌ Отсутствует"
	if b.protocol.Exists() {
		status = "✅ Доступен"
	}
	attached := "❌ Нет"
	if b.protocol.AttachedID() != "" {
		attached = "✅ Да"
	}
	return fmt.Sprintf(
		"📁 <b>УПРАВЛЕНИЕ ФАЙЛАМИ</b>\n\n"+
			"📄 <b>Протокол разногласий:</b>\n"+
			"Статус: %s\n"+
			"Прикреплен: %s\n\n"+
			"Доступные действия:\n\n"+
			"📤 <b>Загрузить протокол:</b>\n"+
			"Добавить новый файл протокола\n\n"+
			"📎 <b>Прикрепить протокол:</b>\n"+
			"Сделать файл доступным в закрепленном сообщении\n\n"+
			"🗑 <b>Удалить протокол:</b>\n"+
			"Удалить текущий файл протокола\n\n"+
			"📄 <b>Проверить файл:</b>\n"+
			"Проверить наличие и доступность\n\n"+
			"<i>Выберите действие:</i>",
		status, attached)
}

func (b *Bot) employeeListText() string {
	byName := make(map[string][]string)
	for handle, name := range b.handles {
		byName[name] = append(byName[name], handle)
	}
	var sb strings.Builder
	sb.WriteString("👥 <b>СПИСОК СОТРУДНИКОВ</b>\n\n")
	names := b.roster.Names()
	for i, name := range names {
		phone, _ := b.roster.Phone(name)
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n   📞 %s\n", i+1, tgui.Esc(name), tgui.Esc(phone))
		if handles := byName[name]; len(handles) > 0 {
			fmt.Fprintf(&sb, "   📱 Telegram: %s\n", tgui.Esc(strings.Join(handles, ", ")))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "<b>Всего сотрудников:</b> %d", len(names))
	return sb.String()
}

// --- stats ---

func (b *Bot) statsText(ctx context.Context) string {
	users, err := b.users.List(ctx)
	if err != nil {
		b.log.Error("stats list failed", logx.Err(err))
	}
	now := b.now()
	today := duty.DayOf(now)

	activeToday := 0
	autoLinked := 0
	for _, u := range users {
		if duty.DayOf(u.LastActive.In(b.cfg.Location)).Equal(today) {
			activeToday++
		}
		if u.Employee != "" {
			if name, ok := b.employeeByHandle(u.Username); ok && name == u.Employee {
				autoLinked++
			}
		}
	}

	// The nearest Saturday strictly after today.
	nextSaturday := today.AddDate(0, 0, 1)
	for nextSaturday.Weekday() != time.Saturday {
		nextSaturday = nextSaturday.AddDate(0, 0, 1)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		"📊 <b>СТАТИСТИКА СИСТЕМЫ</b>\n\n"+
			"👥 <b>Всего пользователей:</b> %d\n"+
			"📱 <b>Активных сегодня:</b> %d\n"+
			"🤖 <b>Автопривязанных:</b> %d\n"+
			"📅 <b>Дежурств в графике:</b> %d\n"+
			"👤 <b>Всего сотрудников:</b> %d\n\n",
		len(users), activeToday, autoLinked, b.schedule.Len(), b.roster.Len())

	if sh, ok := b.schedule.OnDate(nextSaturday); ok {
		fmt.Fprintf(&sb, "<b>Следующее дежурство (%s):</b>\n• %s\n",
			nextSaturday.Format("02.01.2006"), tgui.Esc(strings.Join(sh.Assignees, " + ")))
	} else {
		fmt.Fprintf(&sb, "<b>Ближайшая суббота (%s):</b>\n• Дежурных нет\n", nextSaturday.Format("02.01.2006"))
	}

	sb.WriteString("\n<b>Расписание уведомлений:</b>\n")
	sb.WriteString("• Среда 16:00 - всем о дежурстве в субботу\n")
	sb.WriteString("• Пятница 18:00 - только дежурным\n")
	return sb.String()
}

// --- delivery test commands ---

// hasAdminFlag checks the persisted flag only; the test commands work
// without a live panel session.
func (b *Bot) hasAdminFlag(ctx context.Context, chatID int64) bool {
	u, ok, err := b.users.Get(ctx, chatID)
	if err != nil {
		b.log.Error("admin lookup failed", logx.Int64("chat_id", chatID), logx.Err(err))
		return false
	}
	return ok && u.Admin
}

func (b *Bot) cmdTestBroadcast(ctx context.Context, m *kit.Message) {
	if !b.hasAdminFlag(ctx, m.ChatID) {
		b.send(ctx, m.ChatID, "❌ Только администратор может использовать эту команду.", nil)
		return
	}
	b.send(ctx, m.ChatID, "🔄 Отправляю тестовое среднее уведомление всем пользователям...", nil)
	if _, err := b.reminders.RunBroadcast(ctx, b.now()); err != nil {
		b.send(ctx, m.ChatID, fmt.Sprintf("❌ Ошибка отправки: %s", tgui.Esc(err.Error())), nil)
		return
	}
	b.send(ctx, m.ChatID, "✅ Тестовое среднее уведомление отправлено!", nil)
}

func (b *Bot) cmdTestTargeted(ctx context.Context, m *kit.Message) {
	if !b.hasAdminFlag(ctx, m.ChatID) {
		b.send(ctx, m.ChatID, "❌ Только администратор может использовать эту команду.", nil)
		return
	}
	b.send(ctx, m.ChatID, "🔄 Отправляю тестовое пятничное напоминание дежурным...", nil)
	if _, err := b.reminders.RunTargeted(ctx, b.now()); err != nil {
		b.send(ctx, m.ChatID, fmt.Sprintf("❌ Ошибка отправки: %s", tgui.Esc(err.Error())), nil)
		return
	}
	b.send(ctx, m.ChatID, "✅ Тестовое пятничное напоминание отправлено!", nil)
}

func (b *Bot) cmdTestUser(ctx context.Context, m *kit.Message, args []string) {
	if !b.hasAdminFlag(ctx, m.ChatID) {
		b.send(ctx, m.ChatID, "❌ Только администратор может использовать эту команду.", nil)
		return
	}
	if len(args) != 1 {
		b.send(ctx, m.ChatID,
			"❌ Неверный формат команды\n\nИспользуйте: /test_user <user_id>\nПример: /test_user 123456789", nil)
		return
	}
	target, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(ctx, m.ChatID, "❌ Неверный user_id", nil)
		return
	}
	if err := b.reminders.SendTest(ctx, target, b.now()); err != nil {
		b.send(ctx, m.ChatID, fmt.Sprintf("❌ Ошибка отправки: %s", tgui.Esc(err.Error())), nil)
		return
	}
	b.send(ctx, m.ChatID, fmt.Sprintf("✅ Тестовое сообщение отправлено пользователю %d", target), nil)
}
