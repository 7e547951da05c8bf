package catalog

import "github.com/flowdeck/flowdeck/pkg/models"

// templates is the compiled-in catalog, in presentation order.
var templates = []models.WorkflowTemplate{
	{
		ID:                    "gmail-ai-responder",
		Name:                  "Gmail AI Auto Responder",
		Description:           "Automatically generate draft replies to incoming emails using AI",
		Category:              "email-automation",
		Difficulty:            models.DifficultyBeginner,
		EstimatedSetupMinutes: 10,
		RequiredIntegrations:  []string{"gmail", "openai"},
		Tags:                  []string{"email", "ai", "productivity"},
		Icon:                  "🤖",
		UseCase:               "Save time responding to emails. AI creates professional draft replies that you can review and send.",
		Config: models.TemplateConfig{
			Trigger: map[string]any{"type": "gmail_new_email", "filter": "unread"},
			Steps: []map[string]any{
				{"action": "analyze_email", "ai_enabled": true},
				{"action": "generate_reply", "model": "gpt-4"},
				{"action": "create_draft", "destination": "gmail"},
			},
			Settings: map[string]any{
				"check_interval": "5_minutes",
				"temperature":    0.7,
				"max_tokens":     500,
				"reply_tone":     "professional_friendly",
			},
		},
	},
	{
		ID:                    "gmail-summary",
		Name:                  "Gmail Summary Automation",
		Description:           "Create a daily AI summary of your inbox and highlight important messages",
		Category:              "productivity",
		Difficulty:            models.DifficultyBeginner,
		EstimatedSetupMinutes: 3,
		RequiredIntegrations:  []string{"gmail", "openai"},
		Tags:                  []string{"email", "ai", "productivity"},
		Icon:                  "📧",
		UseCase:               "Get a daily summary of your emails with key highlights and action items.",
		Config: models.TemplateConfig{
			// Daily at 23:00; adjustable later in the UI.
			Trigger: map[string]any{"type": "schedule", "cron": "0 23 * * *"},
			Steps: []map[string]any{
				{"action": "fetch_emails", "query": "newer_than:1d in:inbox"},
				{"action": "rank_importance", "ai_enabled": true},
				{"action": "generate_summary", "model": "gpt-4"},
				{"action": "create_draft", "destination": "gmail", "subject": "Daily Email Summary"},
			},
			Settings: map[string]any{
				"timezone":            "user_timezone",
				"include_attachments": false,
				"extract_senders":     true,
				"max_threads":         200,
			},
		},
	},
	{
		ID:                    "whatsapp-customer-support",
		Name:                  "WhatsApp Customer Support Bot",
		Description:           "Auto-respond to common WhatsApp Business messages with helpful information",
		Category:              "customer-service",
		Difficulty:            models.DifficultyIntermediate,
		EstimatedSetupMinutes: 10,
		RequiredIntegrations:  []string{"whatsapp_business"},
		Tags:                  []string{"customer-service", "automation", "messaging"},
		Icon:                  "💬",
		UseCase:               "Provide instant responses to common customer questions on WhatsApp Business.",
		Config: models.TemplateConfig{
			Trigger: map[string]any{"type": "whatsapp_message"},
			Steps: []map[string]any{
				{"action": "analyze_message", "ai_enabled": true},
				{"action": "check_knowledge_base"},
				{"action": "send_response", "fallback_to_human": true},
			},
			Settings: map[string]any{"auto_response": true, "business_hours_only": false},
		},
	},
	{
		ID:                    "social-media-scheduler",
		Name:                  "Social Media Content Scheduler",
		Description:           "Schedule and post content across multiple social media platforms",
		Category:              "marketing",
		Difficulty:            models.DifficultyIntermediate,
		EstimatedSetupMinutes: 15,
		RequiredIntegrations:  []string{"google_sheets", "twitter", "linkedin"},
		Tags:                  []string{"social-media", "scheduling", "marketing"},
		Icon:                  "📱",
		UseCase:               "Manage your social media presence with automated posting from a content calendar.",
		Config: models.TemplateConfig{
			Trigger: map[string]any{"type": "schedule", "cron": "0 9,13,17 * * *"},
			Steps: []map[string]any{
				{"action": "read_content_calendar", "source": "google_sheets"},
				{"action": "post_to_platforms", "platforms": []any{"twitter", "linkedin"}},
				{"action": "mark_as_posted"},
			},
			Settings: map[string]any{"timezone": "user_timezone", "skip_weekends": true},
		},
	},
	{
		ID:                    "expense-tracker",
		Name:                  "Receipt to Expense Tracker",
		Description:           "Automatically process receipt photos and add expenses to your tracking sheet",
		Category:              "finance",
		Difficulty:            models.DifficultyAdvanced,
		EstimatedSetupMinutes: 20,
		RequiredIntegrations:  []string{"gmail", "google_sheets", "ocr_service"},
		Tags:                  []string{"finance", "receipts", "expense-tracking"},
		Icon:                  "🧾",
		UseCase:               "Streamline expense reporting by automatically processing receipt emails and photos.",
		Config: models.TemplateConfig{
			Trigger: map[string]any{"type": "gmail", "filter": "subject:receipt OR has:attachment"},
			Steps: []map[string]any{
				{"action": "extract_attachments"},
				{"action": "ocr_processing"},
				{"action": "parse_expense_data"},
				{"action": "add_to_sheet", "sheet_id": "user_configured"},
			},
			Settings: map[string]any{"currency": "USD", "categorize_expenses": true},
		},
	},
	{
		ID:                    "meeting-notes-automation",
		Name:                  "Meeting Notes to Action Items",
		Description:           "Convert meeting transcripts into organized action items and follow-ups",
		Category:              "productivity",
		Difficulty:            models.DifficultyAdvanced,
		EstimatedSetupMinutes: 12,
		RequiredIntegrations:  []string{"google_drive", "slack", "calendar"},
		Tags:                  []string{"meetings", "productivity", "ai-processing"},
		Icon:                  "📝",
		UseCase:               "Never lose track of meeting decisions. Automatically extract and distribute action items.",
		Config: models.TemplateConfig{
			Trigger: map[string]any{"type": "calendar_event", "event": "meeting_ended"},
			Steps: []map[string]any{
				{"action": "fetch_meeting_transcript"},
				{"action": "extract_action_items", "ai_enabled": true},
				{"action": "create_tasks"},
				{"action": "notify_participants", "via": "slack"},
			},
			Settings: map[string]any{"auto_create_calendar_events": true, "reminder_frequency": "daily"},
		},
	},
}
