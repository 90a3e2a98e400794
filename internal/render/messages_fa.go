package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Persian

	message.SetString(lang, keyJoined, "%s به بازی پیوست (%d بازیکن).")
	message.SetString(lang, keyLeft, "%s از بازی خارج شد (%d بازیکن).")
	message.SetString(lang, keyRemoved, "%s از بازی حذف شد (%d بازیکن).")
	message.SetString(lang, keyStarted, "بازی با %d بازیکن شروع شد!")
	message.SetString(lang, keyStopped, "بازی متوقف شد.")
	message.SetString(lang, keyReset, "بازی از نو شروع شد.")
	message.SetString(lang, keyRosterEmpty, "بازیکنی باقی نماند، بازی متوقف شد.")
	message.SetString(lang, keyTurn, "نوبت %s است! جرأت یا حقیقت را انتخاب کن. %d ثانیه وقت داری.")
	message.SetString(lang, keyChooseVariant, "%s گزینه %s را انتخاب کرد. حالا پسر یا دختر را انتخاب کن.")
	message.SetString(lang, keyPrompt, "%s تو: %s\n%d ثانیه باقی مانده. تعویض باقی‌مانده: %d.")
	message.SetString(lang, keyPromptChanged, "%s جدید: %s\n%d ثانیه باقی مانده. تعویض استفاده‌شده: %d، باقی‌مانده: %d.")
	message.SetString(lang, keyPromptSent, "%s %s به صورت خصوصی ارسال شد.")
	message.SetString(lang, keyAnswered, "%s %s را انجام داد و %d امتیاز گرفت!")
	message.SetString(lang, keyDeclined, "%s انصراف داد و %d امتیاز از دست داد.")
	message.SetString(lang, keyTimedOut, "وقت %s تمام شد! %d امتیاز کم شد.")
	message.SetString(lang, keySkipped, "نوبت %s رد شد.")

	message.SetString(lang, keyHelp, "دستورها: join، leave، start، stop، skip، remove <بازیکن>، reset. "+
		"در نوبت خودت حقیقت یا جرأت و بعد پسر یا دختر را انتخاب کن و با done، decline یا change پاسخ بده. "+
		"جدول امتیازها در /v1/leaderboard و آیدی تو در /v1/me است.")

	message.SetString(lang, keyModeTruth, "حقیقت")
	message.SetString(lang, keyModeDare, "جرأت")

	message.SetString(lang, keyErrNotAuthorized, "فقط مدیر بازی می‌تواند این کار را انجام دهد.")
	message.SetString(lang, keyErrNotYourTurn, "نوبت تو نیست.")
	message.SetString(lang, keyErrWrongStage, "این دکمه دیگر فعال نیست.")
	message.SetString(lang, keyErrChangeLimit, "تعداد تعویض سوال در این نوبت تمام شده است.")
	message.SetString(lang, keyErrNoQuestions, "سوالی در این دسته وجود ندارد.")
	message.SetString(lang, keyErrEmptyRoster, "هنوز کسی به بازی نپیوسته است.")
	message.SetString(lang, keyErrAlreadyJoined, "قبلاً به بازی پیوسته‌ای.")
	message.SetString(lang, keyErrNotInRoster, "این بازیکن در بازی نیست.")
	message.SetString(lang, keyErrAlreadyRunning, "بازی در حال اجراست.")
	message.SetString(lang, keyErrNotRunning, "بازی در حال اجرا نیست.")
	message.SetString(lang, keyErrTurnInProgress, "در نوبت خودت نمی‌توانی خارج شوی.")
	message.SetString(lang, keyErrSessionNotFound, "اینجا بازی‌ای وجود ندارد.")
	message.SetString(lang, keyErrGeneric, "مشکلی پیش آمد، دوباره تلاش کن.")
}
