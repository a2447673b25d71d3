// 指示: miu200521358
package minteractor

import (
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/domain/model"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"
)

// ConvertRequest はASF/AMC変換要求を表す。MotionPath が空の場合はスケルトンのみ扱う。
type ConvertRequest struct {
	SkeletonPath string
	MotionPath   string
	ClipName     string
	OutputPath   string
	Skeleton     *model.Skeleton
	Reader       moutput.ITextReader
	Writer       moutput.ITextWriter
	SaveOptions  moutput.SaveOptions
	PoseOptions  PoseOptions

	ProgressReporter IPrepareProgressReporter
}

// ConvertResult はASF/AMC変換結果を表す。
type ConvertResult struct {
	Skeleton   *model.Skeleton
	Motion     *MotionData
	Summary    Summary
	OutputPath string
}

// Convert は読み込みと集計を行い、集計YAMLを保存する。
func (uc *AsfAmcUsecase) Convert(request ConvertRequest) (*ConvertResult, error) {
	inputPath := request.MotionPath
	if strings.TrimSpace(inputPath) == "" {
		inputPath = request.SkeletonPath
	}
	outputPath, err := resolveSummaryOutputPath(inputPath, request.OutputPath)
	if err != nil {
		return nil, err
	}

	result, err := uc.Prepare(request)
	if err != nil {
		return nil, err
	}
	if err := uc.SaveSummary(request.Writer, outputPath, result.Summary, request.SaveOptions); err != nil {
		return nil, err
	}
	result.OutputPath = outputPath
	return result, nil
}
