package services

import (
	"fmt"
	"log"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/storage"
)

// PlatformPublisher pushes one post to one platform using a stored credential.
type PlatformPublisher interface {
	Publish(post *models.Post, account *models.SocialAccount) error
}

// DefaultPublishers maps platform names to their live adapters.
func DefaultPublishers() map[string]PlatformPublisher {
	return map[string]PlatformPublisher{
		"linkedin": NewLinkedInService(),
		"twitter":  NewTwitterService(),
	}
}

// PublishToPlatforms pushes the post to every platform flagged true on it.
// All-or-nothing per pass: the first adapter failure aborts and is returned;
// there is no partial-success tracking across platforms.
func PublishToPlatforms(post *models.Post, accounts map[string]*models.SocialAccount, publishers map[string]PlatformPublisher) error {
	platforms := post.EnabledPlatforms()
	if len(platforms) == 0 {
		return fmt.Errorf("no platforms enabled on post")
	}

	for _, name := range platforms {
		publisher, ok := publishers[name]
		if !ok {
			return fmt.Errorf("%s: unsupported platform", name)
		}
		account, ok := accounts[name]
		if !ok || !account.Active {
			return fmt.Errorf("%s: no active account connected", name)
		}
		if err := publisher.Publish(post, account); err != nil {
			return fmt.Errorf("%s: %v", name, err)
		}
	}
	return nil
}

// ProcessScheduledPosts is the scheduled-publish sweep. It is stateless and
// intended to be hit by an external cron trigger. Each due post is claimed
// with a conditional update (scheduled -> publishing) before any side effect,
// so overlapping sweep invocations never publish the same post twice. A post
// that fails stays failed until a human re-schedules it; there is no
// automatic retry.
func ProcessScheduledPosts(publishers map[string]PlatformPublisher) (published int, failed int, err error) {
	now := time.Now()

	var due []models.Post
	if err := storage.DB.
		Where("status = ? AND scheduled_time IS NOT NULL AND scheduled_time <= ?", models.PostStatusScheduled, now).
		Find(&due).Error; err != nil {
		return 0, 0, err
	}

	for i := range due {
		post := &due[i]

		// Claim the row; zero rows affected means another sweep got it first
		claim := storage.DB.Model(&models.Post{}).
			Where("id = ? AND status = ?", post.ID, models.PostStatusScheduled).
			Update("status", models.PostStatusPublishing)
		if claim.Error != nil {
			return published, failed, claim.Error
		}
		if claim.RowsAffected == 0 {
			continue
		}

		accounts, accountsErr := loadActiveAccounts(post.UserID)
		var status, errorMessage string
		if accountsErr != nil {
			status, errorMessage = models.PostStatusFailed, accountsErr.Error()
		} else {
			status, errorMessage = publishOutcome(post, accounts, publishers)
		}

		storage.DB.Model(post).Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
		})

		if status == models.PostStatusFailed {
			log.Printf("sweep: post %d failed: %s", post.ID, errorMessage)
			notifyPostFailed(post, fmt.Errorf("%s", errorMessage))
			failed++
			continue
		}
		published++
	}

	if published > 0 || failed > 0 {
		log.Printf("sweep: %d published, %d failed", published, failed)
	}
	return published, failed, nil
}

// publishOutcome resolves a claimed post to its terminal state. There are
// exactly two: published with no error message, or failed with one.
func publishOutcome(post *models.Post, accounts map[string]*models.SocialAccount, publishers map[string]PlatformPublisher) (status string, errorMessage string) {
	if err := PublishToPlatforms(post, accounts, publishers); err != nil {
		return models.PostStatusFailed, err.Error()
	}
	return models.PostStatusPublished, ""
}

func loadActiveAccounts(userID uint) (map[string]*models.SocialAccount, error) {
	var rows []models.SocialAccount
	if err := storage.DB.Where("user_id = ? AND active = ?", userID, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make(map[string]*models.SocialAccount, len(rows))
	for i := range rows {
		accounts[rows[i].Platform] = &rows[i]
	}
	return accounts, nil
}

func notifyPostFailed(post *models.Post, publishErr error) {
	notification := models.Notification{
		UserID:  post.UserID,
		Title:   "Post failed to publish",
		Message: publishErr.Error(),
		Type:    "post_failed",
		RefID:   post.ID,
		RefType: "post",
	}
	storage.DB.Create(&notification)
}
