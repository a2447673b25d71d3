// 指示: miu200521358
package minteractor

import (
	"strings"
)

// PrepareProgressEventType は準備処理の進捗イベント種別を表す。
type PrepareProgressEventType string

const (
	// PrepareProgressEventTypeSkeletonLoaded はスケルトン読込完了イベントを表す。
	PrepareProgressEventTypeSkeletonLoaded PrepareProgressEventType = "skeleton_loaded"
	// PrepareProgressEventTypeMotionLoaded はモーション読込とクリップ生成の完了イベントを表す。
	PrepareProgressEventTypeMotionLoaded PrepareProgressEventType = "motion_loaded"
	// PrepareProgressEventTypeSummarized は集計完了イベントを表す。
	PrepareProgressEventTypeSummarized PrepareProgressEventType = "summarized"
)

// PrepareProgressEvent は準備処理の進捗イベントを表す。
type PrepareProgressEvent struct {
	Type          PrepareProgressEventType
	NodeCount     int
	FrameCount    int
	TrackCount    int
	KeyframeCount int
	WarningCount  int
}

// IPrepareProgressReporter は準備処理の進捗通知契約を表す。
type IPrepareProgressReporter interface {
	// ReportPrepareProgress は準備処理進捗を通知する。
	ReportPrepareProgress(event PrepareProgressEvent)
}

// Prepare はスケルトンとモーションを読み込み、集計まで行う。保存はしない。
func (uc *AsfAmcUsecase) Prepare(request ConvertRequest) (*ConvertResult, error) {
	skeleton := request.Skeleton
	if skeleton == nil {
		if strings.TrimSpace(request.SkeletonPath) == "" {
			return nil, newInputMissing("入力ASFパスが未指定です")
		}
		loaded, err := uc.LoadSkeleton(request.Reader, request.SkeletonPath)
		if err != nil {
			return nil, err
		}
		skeleton = loaded
	}
	if skeleton.Tree == nil {
		return nil, newInputMissing("ボーンツリーが構築されていません")
	}
	reportPrepareProgress(request.ProgressReporter, PrepareProgressEvent{
		Type:         PrepareProgressEventTypeSkeletonLoaded,
		NodeCount:    skeleton.Tree.Len(),
		WarningCount: len(skeleton.Warnings),
	})

	result := &ConvertResult{Skeleton: skeleton}
	if strings.TrimSpace(request.MotionPath) != "" {
		opts := request.PoseOptions
		if opts.SecondsPerFrame <= 0 {
			opts = DefaultPoseOptions()
		}
		motion, err := uc.LoadMotion(request.Reader, request.MotionPath, skeleton, request.ClipName, opts)
		if err != nil {
			return nil, err
		}
		result.Motion = motion
		reportPrepareProgress(request.ProgressReporter, PrepareProgressEvent{
			Type:          PrepareProgressEventTypeMotionLoaded,
			FrameCount:    len(motion.Motion.Frames),
			TrackCount:    len(motion.Clip.Tracks),
			KeyframeCount: motion.Clip.KeyframeCount(),
			WarningCount:  len(motion.Motion.Warnings),
		})
	}

	result.Summary = Summarize(skeleton, result.Motion)
	reportPrepareProgress(request.ProgressReporter, PrepareProgressEvent{
		Type: PrepareProgressEventTypeSummarized,
	})
	return result, nil
}

// reportPrepareProgress は準備処理の進捗を通知する。
func reportPrepareProgress(reporter IPrepareProgressReporter, event PrepareProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportPrepareProgress(event)
}
